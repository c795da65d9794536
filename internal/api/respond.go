package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rflorenc/resource-console/internal/console"
	"github.com/rflorenc/resource-console/internal/models"
	"github.com/rflorenc/resource-console/internal/platform"
)

// snapshotResponse is the body of every session operation.
type snapshotResponse struct {
	SessionID string `json:"session_id"`
	console.Snapshot
	Error       string               `json:"error,omitempty"`
	FieldErrors []console.FieldError `json:"field_errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeSnapshot answers with the session's current state. A non-nil err
// selects the status code and is reported alongside the snapshot.
func writeSnapshot(w http.ResponseWriter, id string, c *console.Console, ok int, err error) {
	resp := snapshotResponse{SessionID: id, Snapshot: c.Snapshot()}
	status := ok
	if err != nil {
		status = statusFor(err)
		resp.Error = err.Error()
		var ve *console.ValidationError
		if errors.As(err, &ve) {
			resp.FieldErrors = ve.Errors
		}
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, console.ErrValidationFailed),
		errors.Is(err, models.ErrMissingIdentity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrUnknownKind),
		errors.Is(err, console.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, console.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, console.ErrSubmitPending),
		errors.Is(err, console.ErrNoSession),
		errors.Is(err, console.ErrStaleSession),
		errors.Is(err, console.ErrStaleResponse),
		errors.Is(err, console.ErrNoKind):
		return http.StatusConflict
	case errors.Is(err, platform.ErrNetworkFailure),
		errors.Is(err, platform.ErrServerRejected),
		errors.Is(err, platform.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
