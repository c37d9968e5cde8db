package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"dispatch-admin/internal/apperr"
)

// BackendError carries the normalized message of a non-2xx backend response.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("dispatch backend: status %d: %s", e.Status, e.Message)
}

// Unwrap maps the HTTP status onto the app sentinel errors so call sites
// can branch with errors.Is.
func (e *BackendError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return apperr.ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return apperr.ErrNotFound
	case e.Status == http.StatusConflict:
		return apperr.ErrConflict
	case e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError:
		return apperr.ErrUnavailable
	case e.Status >= http.StatusBadRequest:
		return apperr.ErrInvalid
	default:
		return nil
	}
}

// DisplayMessage converts a gateway error into the string shown to the
// operator: the backend's own message when one arrived, else the fallback.
func DisplayMessage(err error, fallback string) string {
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

// transportError classifies a transport-level failure (timeout, refused
// connection) as retryable.
func transportError(err error) error {
	return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
}

const genericErrorMessage = "request failed"

// normalizeMessage extracts a display string from an error body. The
// backend sends either {"message": "..."} or {"message": ["...", ...]};
// the first array element wins, with a generic fallback.
func normalizeMessage(body []byte, fallback string) string {
	if fallback == "" {
		fallback = genericErrorMessage
	}

	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Message) == 0 {
		return fallback
	}

	var single string
	if err := json.Unmarshal(envelope.Message, &single); err == nil && single != "" {
		return single
	}

	var many []string
	if err := json.Unmarshal(envelope.Message, &many); err == nil && len(many) > 0 && many[0] != "" {
		return many[0]
	}

	return fallback
}
