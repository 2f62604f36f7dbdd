package session

import (
	"net/http"
	"net/url"
)

const (
	// CSRFCookieName is the cookie the backend rotates the CSRF token in.
	CSRFCookieName = "csrftoken"
	// CSRFHeaderName is the header the backend checks on mutating requests.
	CSRFHeaderName = "X-CSRFToken"
)

// csrfSource derives the current CSRF token from the cookie jar, with a
// statically configured fallback for deployments that hand the token
// out-of-band. The token is re-derived on every mutating request
// because the server may rotate it at any time.
type csrfSource struct {
	jar      http.CookieJar
	base     *url.URL
	fallback string
}

func (s *csrfSource) token() string {
	if s.jar != nil {
		for _, cookie := range s.jar.Cookies(s.base) {
			if cookie.Name == CSRFCookieName && cookie.Value != "" {
				return cookie.Value
			}
		}
	}
	return s.fallback
}

// attach injects the token header on state-changing requests. Read-only
// requests pass through untouched, and a missing token simply means no
// header: rejecting such requests is the server's job.
func (s *csrfSource) attach(req *http.Request) {
	if !mutatingMethod(req.Method) {
		return
	}
	if token := s.token(); token != "" {
		req.Header.Set(CSRFHeaderName, token)
	}
}

func mutatingMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
