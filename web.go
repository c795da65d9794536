package resourceconsole

import "embed"

// WebFS holds the operator page served by the console API.
//
//go:embed web
var WebFS embed.FS
