package session_test

import (
	"sync"
	"testing"

	"github.com/fintrack/go-client/session"
	"github.com/stretchr/testify/require"
)

func TestNotifierCollapsesRepeats(t *testing.T) {
	notifier := session.NewExpiryNotifier()

	var first, second int
	notifier.Subscribe(func() { first++ })
	notifier.Subscribe(func() { second++ })

	notifier.Notify()
	notifier.Notify()
	notifier.Notify()

	require.Equal(t, 1, first)
	require.Equal(t, 1, second)
}

func TestNotifierRearm(t *testing.T) {
	notifier := session.NewExpiryNotifier()

	var count int
	notifier.Subscribe(func() { count++ })

	notifier.Notify()
	notifier.Rearm()
	notifier.Notify()

	require.Equal(t, 2, count)
}

func TestNotifierConcurrentNotify(t *testing.T) {
	notifier := session.NewExpiryNotifier()

	var mu sync.Mutex
	count := 0
	notifier.Subscribe(func() {
		mu.Lock()
		count++
		mu.Unlock()
	})

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			notifier.Notify()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, count, "concurrent failure paths must produce one logout")
}

func TestNotifierWithoutSubscribers(t *testing.T) {
	notifier := session.NewExpiryNotifier()
	notifier.Notify() // must not panic with nobody listening
}
