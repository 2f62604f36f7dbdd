package session

import (
	"net/http"

	"github.com/google/uuid"
)

// Request describes one logical API call. Paths are relative to the
// client's base URL ("accounts/", "auth/login/"). A Request is created
// once per call and discarded when the call resolves; the only mutation
// during its lifetime is the single flip of the retried flag before a
// replay.
type Request struct {
	// ID correlates log lines and the X-Request-ID header. Assigned at
	// construction, never reused.
	ID     string
	Method string
	Path   string
	Header http.Header
	Body   []byte

	// retried is set by the client before the one permitted replay. A
	// 401 on a request whose flag is already set is terminal.
	retried bool
}

// NewRequest builds a Request for the given method and relative path.
func NewRequest(method, path string, body []byte) *Request {
	return &Request{
		ID:     uuid.NewString(),
		Method: method,
		Path:   path,
		Header: make(http.Header),
		Body:   body,
	}
}

// Retried reports whether the request has already been replayed.
func (r *Request) Retried() bool {
	return r.retried
}

// Response carries a fully read HTTP response. The body is buffered so
// a caller can decode it without worrying about connection reuse.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
