// Package session implements the authenticated HTTP session layer for
// the fintrack backend: CSRF protection on state-changing calls,
// transparent single-flight credential refresh on session expiry with a
// single replay of the failed request, and a process-wide expiry
// broadcast when the session is unrecoverable.
//
// The session credential itself is opaque to this package. It lives as
// httpOnly cookies inside the http.Client's jar; the client never
// reads, constructs, or inspects it and only observes whether requests
// that rely on it succeed.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/fintrack/go-client/profile"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	loginPath    = "auth/login/"
	registerPath = "auth/register/"
	refreshPath  = "auth/refresh/"
	logoutPath   = "auth/logout/"

	defaultUserAgent   = "fintrack-go-client/1.0"
	defaultHTTPTimeout = 30 * time.Second
)

// Client issues authenticated requests against the backend. Safe for
// concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	csrf      *csrfSource
	refresh   *RefreshCoordinator
	notifier  *ExpiryNotifier
	cache     *profile.Cache
	logger    zerolog.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient     *http.Client
	logger         zerolog.Logger
	fallbackCSRF   string
	refreshTimeout time.Duration
	store          profile.Store
	userAgent      string
}

// WithHTTPClient replaces the default transport. If the client has no
// cookie jar one is installed, since the session credential can only
// live there.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithFallbackCSRFToken sets the token used when no csrftoken cookie is
// present, the out-of-band equivalent of a document-embedded token.
func WithFallbackCSRFToken(token string) Option {
	return func(o *clientOptions) {
		o.fallbackCSRF = token
	}
}

// WithRefreshTimeout bounds the credential refresh call.
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.refreshTimeout = timeout
	}
}

// WithProfileStore persists the user-record mirror across runs.
func WithProfileStore(store profile.Store) Option {
	return func(o *clientOptions) {
		o.store = store
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) {
		o.userAgent = ua
	}
}

// New creates a Client for the API rooted at baseURL (typically ending
// in "/api/"). Request paths are resolved relative to it.
func New(baseURL string, options ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[session.New] parse base URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("[session.New] base URL %q must be absolute", baseURL)
	}

	opts := clientOptions{
		logger:    zerolog.Nop(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range options {
		opt(&opts)
	}

	httpClient := opts.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "[session.New] cookie jar")
		}
		httpClient.Jar = jar
	}

	c := &Client{
		base: base,
		http: httpClient,
		csrf: &csrfSource{
			jar:      httpClient.Jar,
			base:     base,
			fallback: opts.fallbackCSRF,
		},
		notifier:  NewExpiryNotifier(),
		cache:     profile.NewCache(opts.store),
		logger:    opts.logger,
		userAgent: opts.userAgent,
	}
	c.refresh = NewRefreshCoordinator(
		RefresherFunc(c.refreshSession),
		c.cache,
		opts.refreshTimeout,
		opts.logger,
	)
	return c, nil
}

// Profile exposes the advisory user-record mirror.
func (c *Client) Profile() *profile.Cache {
	return c.cache
}

// Notifier exposes the expiry broadcast.
func (c *Client) Notifier() *ExpiryNotifier {
	return c.notifier
}

// OnSessionExpired registers fn to run when the session becomes
// unrecoverable.
func (c *Client) OnSessionExpired(fn func()) {
	c.notifier.Subscribe(fn)
}

// Do sends req and returns its response, transparently running the
// refresh-and-replay protocol when the backend reports session expiry.
//
// A 401 on a not-yet-retried request (other than to the refresh
// endpoint) triggers one coordinated refresh; on refresh success the
// request is replayed exactly once and the replay's result is final
// regardless of status. Refresh failure, or a 401 from the refresh
// endpoint itself, clears local session state, fires the expiry
// broadcast, and surfaces an error matching ErrSessionExpired. All
// other outcomes pass through unchanged: transport errors as-is, non-2xx
// statuses as *StatusError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		// Transport errors are never retried by this layer.
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return finalize(resp)
	}

	unauthorized := &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}

	if req.retried {
		c.logger.Warn().Str("request_id", req.ID).Msg("unauthorized after replay, giving up")
		return nil, unauthorized
	}

	if c.isRefreshPath(req.Path) {
		// The credential just failed to refresh itself; running the
		// refresh protocol with it cannot succeed.
		c.expire()
		return nil, newExpiredError(unauthorized)
	}

	req.retried = true
	c.logger.Debug().Str("request_id", req.ID).Msg("session looks expired, requesting refresh")

	if err := c.refresh.EnsureRefreshed(ctx); err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			// The caller stopped waiting; the session's fate is still
			// being decided by the in-flight refresh.
			return nil, errors.Wrap(err, "[Client.Do] awaiting session refresh")
		}
		c.expire()
		return nil, newExpiredError(unauthorized)
	}

	resp, err = c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	return finalize(resp)
}

// Login authenticates with email and password. The server installs the
// session credential as cookies on the transport; only the user record
// from the response body is read. Login bypasses the retry protocol: a
// 401 here means bad credentials, not an expired session.
func (c *Client) Login(ctx context.Context, email, password string) (*profile.User, error) {
	body, err := json.Marshal(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password})
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Login] encode credentials")
	}

	resp, err := c.send(ctx, NewRequest(http.MethodPost, loginPath, body))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	var payload struct {
		User *profile.User `json:"user"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] decode response")
	}
	if payload.User != nil {
		c.cache.Put(payload.User)
	}
	c.notifier.Rearm()
	c.logger.Info().Str("email", email).Msg("logged in")
	return payload.User, nil
}

// Register creates an account and signs it in. The server installs the
// session credential the same way login does, so a successful
// registration leaves the client ready to issue authenticated requests.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (*profile.User, error) {
	body, err := json.Marshal(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name,omitempty"`
	}{Email: email, Password: password, FullName: fullName})
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Register] encode request")
	}

	resp, err := c.send(ctx, NewRequest(http.MethodPost, registerPath, body))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	var payload struct {
		User *profile.User `json:"user"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, errors.Wrap(err, "[Client.Register] decode response")
	}
	if payload.User != nil {
		c.cache.Put(payload.User)
	}
	c.notifier.Rearm()
	c.logger.Info().Str("email", email).Msg("registered")
	return payload.User, nil
}

// Logout invalidates the server-side session and drops the local
// mirror. The mirror is dropped even when the server call fails: a
// rejected logout means the session is already gone.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, NewRequest(http.MethodPost, logoutPath, nil))
	c.cache.Clear()
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	c.logger.Info().Msg("logged out")
	return nil
}

// refreshSession performs the raw refresh network call. It goes through
// send, not Do: a 401 here must never re-enter the retry protocol. A
// 2xx without a user payload still counts as success; the credential
// was renewed and the profile mirror is simply left stale.
func (c *Client) refreshSession(ctx context.Context) (*profile.User, error) {
	resp, err := c.send(ctx, NewRequest(http.MethodPost, refreshPath, nil))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	var payload struct {
		User *profile.User `json:"user"`
	}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &payload); err != nil {
			c.logger.Debug().Err(err).Msg("refresh response body unparseable, leaving profile mirror stale")
			return nil, nil
		}
	}
	return payload.User, nil
}

// expire clears local session state and broadcasts expiry. Several
// failing requests may arrive here around the same loss; the notifier
// collapses the broadcasts and clearing the cache is idempotent.
func (c *Client) expire() {
	c.logger.Error().Msg("session unrecoverable, broadcasting expiry")
	c.cache.Clear()
	c.notifier.Notify()
}

// send issues one HTTP round trip: resolve the path, attach correlation
// and CSRF headers, read the full body. No retry decisions are made
// here.
func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.resolve(req.Path)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), bytes.NewReader(req.Body))
	if err != nil {
		return nil, errors.Wrap(err, "[Client.send] build request")
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", req.ID)
	c.csrf.attach(httpReq)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.send] %s %s", req.Method, target.Path)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.send] read response body")
	}

	c.logger.Debug().
		Str("request_id", req.ID).
		Str("method", req.Method).
		Str("path", target.Path).
		Int("status", httpResp.StatusCode).
		Msg("request complete")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.resolve] parse path %q", path)
	}
	return c.base.ResolveReference(ref), nil
}

func (c *Client) isRefreshPath(path string) bool {
	target, err := c.resolve(path)
	if err != nil {
		return false
	}
	refresh, err := c.resolve(refreshPath)
	if err != nil {
		return false
	}
	return target.Path == refresh.Path
}

func finalize(resp *Response) (*Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	return nil, &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
}
