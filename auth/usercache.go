package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/taskdeck/taskdeck/taskstore"
)

type (
	// PrincipalCache keeps recently resolved users so the gate does not
	// hit the database on every request. Entries expire on their own,
	// users are immutable so there is nothing to invalidate.
	PrincipalCache interface {
		Save(ctx context.Context, user taskstore.User) error
		Lookup(ctx context.Context, username string) (taskstore.User, bool, error)
	}

	memCache struct {
		cache *bigcache.BigCache
	}
)

func InMemoryPrincipalCache() PrincipalCache {
	cache, _ := bigcache.NewBigCache(bigcache.DefaultConfig(10 * time.Minute))
	return &memCache{
		cache: cache,
	}
}

func (m *memCache) Save(ctx context.Context, user taskstore.User) error {
	buf, err := json.Marshal(cachedUser{ID: user.ID, Username: user.Username, Salt: user.Salt, PasswordHash: user.PasswordHash})
	if err != nil {
		return err
	}
	return m.cache.Set(user.Username, buf)
}

func (m *memCache) Lookup(ctx context.Context, username string) (taskstore.User, bool, error) {
	buf, err := m.cache.Get(username)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return taskstore.User{}, false, nil
	} else if err != nil {
		return taskstore.User{}, false, err
	}
	var cu cachedUser
	err = json.Unmarshal(buf, &cu)
	if err != nil {
		return taskstore.User{}, false, err
	}
	return taskstore.User{ID: cu.ID, Username: cu.Username, Salt: cu.Salt, PasswordHash: cu.PasswordHash}, true, nil
}

// cachedUser exists because taskstore.User hides its credential fields
// from json, and the cache needs them back intact.
type cachedUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Salt         []byte `json:"salt"`
	PasswordHash []byte `json:"password_hash"`
}
