package profile_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fintrack/go-client/profile"
	"github.com/stretchr/testify/require"
)

func TestCachePutGetClear(t *testing.T) {
	cache := profile.NewCache(nil)

	_, ok := cache.Get()
	require.False(t, ok)

	cache.Put(&profile.User{ID: 1, Email: "a@example.com"})
	user, ok := cache.Get()
	require.True(t, ok)
	require.Equal(t, "a@example.com", user.Email)

	// The cache hands out copies; mutating one must not leak back in.
	user.Email = "mutated@example.com"
	again, _ := cache.Get()
	require.Equal(t, "a@example.com", again.Email)

	cache.Clear()
	_, ok = cache.Get()
	require.False(t, ok)
	cache.Clear() // idempotent
}

func TestCacheUpdatedAt(t *testing.T) {
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := profile.NewCache(nil, profile.WithNowTime(func() time.Time { return stamp }))

	require.True(t, cache.UpdatedAt().IsZero())
	cache.Put(&profile.User{ID: 1})
	require.Equal(t, stamp, cache.UpdatedAt())
}

func TestCachePersistsThroughFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile", "user.json")
	store := profile.NewFileStore(path)

	cache := profile.NewCache(store)
	cache.Put(&profile.User{ID: 9, Username: "alice", Email: "a@example.com"})

	// A fresh cache over the same store starts from the persisted record.
	reloaded := profile.NewCache(store)
	user, ok := reloaded.Get()
	require.True(t, ok)
	require.Equal(t, int64(9), user.ID)
	require.Equal(t, "alice", user.Username)

	reloaded.Clear()
	empty := profile.NewCache(store)
	_, ok = empty.Get()
	require.False(t, ok)
}

func TestFileStoreMissingFile(t *testing.T) {
	store := profile.NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	user, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, user)

	require.NoError(t, store.Clear(), "clearing an absent record is not an error")
}

func TestMemoryStoreCopies(t *testing.T) {
	store := profile.NewMemoryStore()
	original := &profile.User{ID: 2, Email: "b@example.com"}
	require.NoError(t, store.Save(original))

	original.Email = "changed@example.com"
	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "b@example.com", loaded.Email)
}

func TestUserFullName(t *testing.T) {
	require.Equal(t, "Ada Lovelace", (&profile.User{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	require.Equal(t, "Ada", (&profile.User{FirstName: "Ada"}).FullName())
	require.Equal(t, "Lovelace", (&profile.User{LastName: "Lovelace"}).FullName())
	require.Equal(t, "", (&profile.User{}).FullName())
}
