package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors shared across endpoints.
var (
	// ErrUnauthorized is returned for any 401 from the backend. Callers
	// holding a session treat it as a forced redirect to login.
	ErrUnauthorized = errors.New("backend: unauthorized")

	// ErrAlreadyCancelled is returned by the public cancel endpoint when the
	// booking was cancelled earlier. Callers treat it as a success outcome.
	ErrAlreadyCancelled = errors.New("backend: booking already cancelled")
)

// NotFoundError indicates the requested resource (or the token guarding it)
// does not exist. On token-gated pages this renders the invalid-link view.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("backend: not found: %s", e.Message)
}

// ConflictError carries a validation or slot-contention rejection from a
// mutation. Message is the server-provided detail, surfaced to the user
// verbatim.
type ConflictError struct {
	StatusCode int
	Message    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("backend: conflict (%d): %s", e.StatusCode, e.Message)
}

// APIError is any remaining non-2xx response (typically 5xx).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: status %d: %s", e.StatusCode, e.Message)
}

// errorBody is the shape FastAPI uses for error payloads, plus the status
// marker the cancel endpoint sets for idempotent cancels.
type errorBody struct {
	Detail string `json:"detail"`
	Status string `json:"status"`
}

// decodeError maps a non-2xx response onto the error taxonomy.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var body errorBody
	_ = json.Unmarshal(raw, &body)
	if body.Status == "already_cancelled" {
		return ErrAlreadyCancelled
	}

	msg := body.Detail
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Message: msg}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ConflictError{StatusCode: resp.StatusCode, Message: msg}
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
}

// UserMessage extracts the message suitable for showing to an end user.
// Transport and server errors collapse to a generic message; validation and
// conflict details pass through verbatim.
func UserMessage(err error) string {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Message
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Message
	}
	return "Something went wrong. Please try again."
}
