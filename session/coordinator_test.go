package session_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fintrack/go-client/profile"
	"github.com/fintrack/go-client/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var errRefreshRejected = errors.New("refresh rejected")

// stubRefresher counts invocations and can block until released, so a
// test can hold a refresh in flight while more callers pile in.
type stubRefresher struct {
	calls   atomic.Int32
	release chan struct{}
	user    *profile.User
	err     error
}

func (r *stubRefresher) RefreshSession(ctx context.Context) (*profile.User, error) {
	r.calls.Add(1)
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.user, r.err
}

func newCoordinator(t *testing.T, refresher session.Refresher, timeout time.Duration) (*session.RefreshCoordinator, *profile.Cache) {
	t.Helper()
	cache := profile.NewCache(nil)
	return session.NewRefreshCoordinator(refresher, cache, timeout, zerolog.Nop()), cache
}

func TestEnsureRefreshedSingleFlight(t *testing.T) {
	refresher := &stubRefresher{
		release: make(chan struct{}),
		user:    &profile.User{ID: 7, Email: "alice@example.com"},
	}
	coordinator, cache := newCoordinator(t, refresher, 0)

	const n = 16
	var started, finished sync.WaitGroup
	started.Add(n)
	finished.Add(n)

	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer finished.Done()
			started.Done()
			results <- coordinator.EnsureRefreshed(context.Background())
		}()
	}

	started.Wait()
	time.Sleep(100 * time.Millisecond) // let every caller reach the coordinator
	close(refresher.release)
	finished.Wait()
	close(results)

	for err := range results {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), refresher.calls.Load(), "expected exactly one refresh call")

	user, ok := cache.Get()
	require.True(t, ok)
	require.Equal(t, "alice@example.com", user.Email)
	require.False(t, coordinator.InFlight())
}

func TestEnsureRefreshedFansOutFailure(t *testing.T) {
	refresher := &stubRefresher{
		release: make(chan struct{}),
		err:     errRefreshRejected,
	}
	coordinator, cache := newCoordinator(t, refresher, 0)
	cache.Put(&profile.User{ID: 1})

	const n = 5
	var started, finished sync.WaitGroup
	started.Add(n)
	finished.Add(n)

	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer finished.Done()
			started.Done()
			results <- coordinator.EnsureRefreshed(context.Background())
		}()
	}

	started.Wait()
	time.Sleep(100 * time.Millisecond)
	close(refresher.release)
	finished.Wait()
	close(results)

	for err := range results {
		require.ErrorIs(t, err, errRefreshRejected)
	}
	require.Equal(t, int32(1), refresher.calls.Load())

	_, ok := cache.Get()
	require.False(t, ok, "failure must clear the profile mirror")
}

func TestEnsureRefreshedResetsAfterEachAttempt(t *testing.T) {
	refresher := &stubRefresher{err: errRefreshRejected}
	coordinator, _ := newCoordinator(t, refresher, 0)

	require.ErrorIs(t, coordinator.EnsureRefreshed(context.Background()), errRefreshRejected)
	require.False(t, coordinator.InFlight())

	// A later expiry must be able to start a brand-new attempt, and an
	// earlier failure must not poison it.
	refresher.err = nil
	require.NoError(t, coordinator.EnsureRefreshed(context.Background()))
	require.False(t, coordinator.InFlight())
	require.Equal(t, int32(2), refresher.calls.Load())
}

func TestEnsureRefreshedTimeout(t *testing.T) {
	refresher := &stubRefresher{release: make(chan struct{})} // never released
	defer close(refresher.release)
	coordinator, _ := newCoordinator(t, refresher, 50*time.Millisecond)

	err := coordinator.EnsureRefreshed(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, coordinator.InFlight(), "timeout must reset the coordinator")
}

func TestEnsureRefreshedWaiterCancellation(t *testing.T) {
	refresher := &stubRefresher{release: make(chan struct{})}
	coordinator, _ := newCoordinator(t, refresher, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- coordinator.EnsureRefreshed(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// The refresh itself keeps running and still completes.
	close(refresher.release)
	require.Eventually(t, func() bool {
		return !coordinator.InFlight()
	}, time.Second, 10*time.Millisecond)
}

func TestRefreshWithoutUserPayloadLeavesMirrorStale(t *testing.T) {
	refresher := &stubRefresher{} // succeeds with no user record
	coordinator, cache := newCoordinator(t, refresher, 0)

	stale := &profile.User{ID: 3, Email: "stale@example.com"}
	cache.Put(stale)

	require.NoError(t, coordinator.EnsureRefreshed(context.Background()))

	user, ok := cache.Get()
	require.True(t, ok, "a refresh without a user payload must not clear the mirror")
	require.Equal(t, stale.Email, user.Email)
}

func TestEnsureRefreshedRecoversFromPanic(t *testing.T) {
	calls := atomic.Int32{}
	refresher := session.RefresherFunc(func(ctx context.Context) (*profile.User, error) {
		if calls.Add(1) == 1 {
			panic("refresh exploded")
		}
		return nil, nil
	})
	coordinator, _ := newCoordinator(t, refresher, 0)

	require.Error(t, coordinator.EnsureRefreshed(context.Background()))
	require.False(t, coordinator.InFlight(), "panic must not leave the coordinator in flight")

	require.NoError(t, coordinator.EnsureRefreshed(context.Background()))
}
