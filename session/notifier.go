package session

import "sync"

// ExpiryNotifier broadcasts unrecoverable session loss to the rest of
// the application, replacing the browser's process-wide
// "auth-token-expired" event with an explicit subscriber list.
//
// Several requests can fail around the same expiry and each call
// Notify; the notifier collapses them so subscribers run once per
// expiry window. Rearm opens the next window after a successful login.
type ExpiryNotifier struct {
	mu          sync.Mutex
	subscribers []func()
	fired       bool
}

func NewExpiryNotifier() *ExpiryNotifier {
	return &ExpiryNotifier{}
}

// Subscribe registers fn to run on session expiry. Subscribers are
// invoked synchronously from the request path and should hand off any
// slow work.
func (n *ExpiryNotifier) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, fn)
}

// Notify broadcasts expiry to all current subscribers. Fire-and-forget:
// no return value, no acknowledgment. Calls after the first within an
// expiry window are no-ops.
func (n *ExpiryNotifier) Notify() {
	n.mu.Lock()
	if n.fired {
		n.mu.Unlock()
		return
	}
	n.fired = true
	subscribers := make([]func(), len(n.subscribers))
	copy(subscribers, n.subscribers)
	n.mu.Unlock()

	for _, fn := range subscribers {
		fn()
	}
}

// Rearm allows the next Notify to fire. Called when a new session is
// established.
func (n *ExpiryNotifier) Rearm() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fired = false
}
