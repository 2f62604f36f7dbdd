package session

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionExpired marks unrecoverable session loss: the refresh
	// protocol ran and failed, or the refresh endpoint itself rejected
	// the credential. Match with errors.Is.
	ErrSessionExpired = errors.New("session expired")
)

// StatusError is a terminal non-2xx response, surfaced to the caller
// with its status and body unchanged.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// expiredError wraps the failure that revealed session loss so callers
// can both match ErrSessionExpired and inspect the underlying response.
type expiredError struct {
	cause error
}

func newExpiredError(cause error) error {
	return &expiredError{cause: cause}
}

func (e *expiredError) Error() string {
	return "session expired: " + e.cause.Error()
}

func (e *expiredError) Unwrap() error {
	return e.cause
}

func (e *expiredError) Is(target error) bool {
	return target == ErrSessionExpired
}
