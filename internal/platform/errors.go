package platform

import (
	"errors"
	"fmt"
)

// Remote failure taxonomy. Callers match with errors.Is.
var (
	// ErrNetworkFailure means the request could not be sent or completed.
	ErrNetworkFailure = errors.New("network failure")
	// ErrServerRejected means the server answered with a non-2xx status.
	ErrServerRejected = errors.New("server rejected request")
	// ErrMalformedResponse means the body did not have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError carries the details of a non-2xx answer. The body is not assumed
// to be machine-readable and is kept truncated.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrServerRejected }
