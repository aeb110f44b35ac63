package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck/taskstore"
)

func TestPrincipalCacheRoundtrip(t *testing.T) {
	ctx := context.Background()
	cache := InMemoryPrincipalCache()

	_, found, err := cache.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, found)

	alice := taskstore.User{ID: 1, Username: "alice", Salt: []byte("salt"), PasswordHash: []byte("hash")}
	require.NoError(t, cache.Save(ctx, alice))

	got, found, err := cache.Lookup(ctx, "alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, alice, got, "credential fields must survive the cache")
}
