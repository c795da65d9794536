package models

import (
	"strings"
	"time"
)

// Target describes the remote API the console manages.
type Target struct {
	BaseURL  string        `json:"base_url"` // "http://localhost:3000"
	Timeout  time.Duration `json:"timeout"`
	Insecure bool          `json:"insecure"` // skip TLS verification
	CACert   string        `json:"-"`        // PEM bundle
}

// URL joins the base URL and an API path.
func (t *Target) URL(path string) string {
	return strings.TrimRight(t.BaseURL, "/") + path
}
