package console

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidationFailed means the draft was rejected locally; nothing was sent.
	ErrValidationFailed = errors.New("validation failed")
	// ErrNoKind means no resource kind has been selected yet.
	ErrNoKind = errors.New("no resource kind selected")
	// ErrNoSession means there is no open edit session.
	ErrNoSession = errors.New("no edit session open")
	// ErrUnknownField means the key is not a field of the session's kind.
	ErrUnknownField = errors.New("unknown field")
	// ErrSubmitPending means a submit is already in flight.
	ErrSubmitPending = errors.New("submit already pending")
	// ErrStaleSession means the active kind changed under an open session.
	ErrStaleSession = errors.New("edit session belongs to another kind")
	// ErrStaleResponse means a fetch finished after its kind stopped being
	// active, or after a newer fetch was issued; its result was discarded.
	ErrStaleResponse = errors.New("stale response discarded")
	// ErrRecordNotFound means the identity is not in the current collection.
	ErrRecordNotFound = errors.New("record not found")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	fields := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fmt.Sprintf("validation: %d errors (%s)", len(e.Errors), strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
