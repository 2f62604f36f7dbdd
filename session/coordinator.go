package session

import (
	"context"
	"sync"
	"time"

	"github.com/fintrack/go-client/profile"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultRefreshTimeout bounds the refresh network call. Hitting it is
// treated identically to an explicit refresh failure.
const DefaultRefreshTimeout = 10 * time.Second

// Refresher performs the actual credential refresh network call. On
// success it may return the renewed user record, or nil when the server
// omits one (the credential is still considered renewed).
type Refresher interface {
	RefreshSession(ctx context.Context) (*profile.User, error)
}

// RefresherFunc adapts a function to the Refresher interface.
type RefresherFunc func(ctx context.Context) (*profile.User, error)

func (f RefresherFunc) RefreshSession(ctx context.Context) (*profile.User, error) {
	return f(ctx)
}

// RefreshCoordinator collapses concurrent "session looks expired"
// signals into at most one in-flight refresh call and fans its outcome
// out to every waiter.
//
// Without it, a burst of parallel requests observing expiry at the same
// moment would race to rotate the same credential and could invalidate
// each other's refresh.
type RefreshCoordinator struct {
	refresher Refresher
	cache     *profile.Cache
	timeout   time.Duration
	logger    zerolog.Logger

	mu      sync.Mutex
	pending *refreshAttempt
}

// refreshAttempt is the shared outcome of one refresh call. err is
// written before done is closed and read only after it is closed.
type refreshAttempt struct {
	done chan struct{}
	err  error
}

func (a *refreshAttempt) wait(ctx context.Context) error {
	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewRefreshCoordinator builds a coordinator around refresher. A
// non-positive timeout falls back to DefaultRefreshTimeout.
func NewRefreshCoordinator(refresher Refresher, cache *profile.Cache, timeout time.Duration, logger zerolog.Logger) *RefreshCoordinator {
	if timeout <= 0 {
		timeout = DefaultRefreshTimeout
	}
	return &RefreshCoordinator{
		refresher: refresher,
		cache:     cache,
		timeout:   timeout,
		logger:    logger,
	}
}

// EnsureRefreshed returns nil once the session credential has been
// renewed. When a refresh is already in flight the caller joins it and
// receives the same outcome; otherwise the caller starts one. The
// returned error is the shared refresh outcome, or ctx's error if the
// caller stopped waiting (the refresh itself keeps running under its
// own timeout).
func (rc *RefreshCoordinator) EnsureRefreshed(ctx context.Context) error {
	rc.mu.Lock()
	if rc.pending != nil {
		attempt := rc.pending
		rc.mu.Unlock()
		rc.logger.Debug().Msg("joining in-flight session refresh")
		return attempt.wait(ctx)
	}

	attempt := &refreshAttempt{done: make(chan struct{})}
	rc.pending = attempt
	rc.mu.Unlock()

	rc.logger.Debug().Msg("starting session refresh")
	go rc.run(attempt)
	return attempt.wait(ctx)
}

// InFlight reports whether a refresh call is currently executing.
func (rc *RefreshCoordinator) InFlight() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.pending != nil
}

// run executes the refresh call and completes attempt. The deferred
// completion handler runs exactly once per attempt, even on panic, so
// the coordinator can never be left stuck in flight. State is reset
// before waiters are woken: a waiter that immediately observes another
// 401 must be able to start a brand-new attempt.
func (rc *RefreshCoordinator) run(attempt *refreshAttempt) {
	defer func() {
		if r := recover(); r != nil {
			rc.cache.Clear()
			attempt.err = errors.Errorf("[RefreshCoordinator] refresh panicked: %v", r)
		}
		rc.mu.Lock()
		rc.pending = nil
		rc.mu.Unlock()
		close(attempt.done)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), rc.timeout)
	defer cancel()

	user, err := rc.refresher.RefreshSession(ctx)
	if err != nil {
		rc.cache.Clear()
		rc.logger.Warn().Err(err).Msg("session refresh failed")
		attempt.err = errors.Wrap(err, "[RefreshCoordinator] refresh")
		return
	}

	if user != nil {
		rc.cache.Put(user)
	}
	rc.logger.Debug().Bool("profile_updated", user != nil).Msg("session refresh succeeded")
}
