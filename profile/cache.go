package profile

import (
	"sync"
	"time"
)

// Cache is the in-process mirror of the current user record. It is
// overwritten whenever a successful authenticated call returns a user
// payload and cleared on unrecoverable session loss.
//
// Writes also go to the backing Store when one is configured. Store
// failures are deliberately swallowed: the mirror is advisory and a
// persistence hiccup must never fail the authenticated call that
// produced the record.
type Cache struct {
	mu        sync.RWMutex
	user      *User
	updatedAt time.Time

	store Store
	now   func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithNowTime sets the clock used for the updated-at stamp (for tests).
func WithNowTime(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a Cache backed by store. A nil store keeps the
// record in memory only. Any previously persisted record is loaded as
// the starting value.
func NewCache(store Store, options ...CacheOption) *Cache {
	c := &Cache{
		store: store,
		now:   time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	if store != nil {
		if user, err := store.Load(); err == nil && user != nil {
			c.user = user
		}
	}
	return c
}

// Put replaces the cached record.
func (c *Cache) Put(user *User) {
	if user == nil {
		return
	}
	u := *user

	c.mu.Lock()
	c.user = &u
	c.updatedAt = c.now()
	c.mu.Unlock()

	if c.store != nil {
		_ = c.store.Save(&u)
	}
}

// Get returns a copy of the cached record, or false when none is held.
func (c *Cache) Get() (*User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil, false
	}
	u := *c.user
	return &u, true
}

// UpdatedAt reports when the record was last overwritten.
func (c *Cache) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// Clear drops the cached record and the persisted copy. Safe to call
// repeatedly.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.user = nil
	c.updatedAt = time.Time{}
	c.mu.Unlock()

	if c.store != nil {
		_ = c.store.Clear()
	}
}
