package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck/internal/testutil"
	"github.com/taskdeck/taskdeck/taskstore"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()
	issuer := NewIssuer(testKey(1), time.Minute)

	alice, err := Register(ctx, store, "alice", "pw1")
	require.NoError(t, err)
	assert.NotZero(t, alice.ID)
	assert.Equal(t, "alice", alice.Username)

	_, err = Register(ctx, store, "alice", "pw2")
	var dup taskstore.DuplicateUsername
	require.ErrorAs(t, err, &dup, "second registration of the same name must fail")

	token, err := Login(ctx, store, issuer, "alice", "pw1")
	require.NoError(t, err)
	subject, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	_, err = Login(ctx, store, issuer, "alice", "pw2")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = Login(ctx, store, issuer, "nobody", "pw1")
	assert.ErrorIs(t, err, ErrBadCredentials, "unknown user and wrong password must be indistinguishable")
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	_, err := Register(ctx, store, "   ", "pw")
	assert.Error(t, err)
	_, err = Register(ctx, store, "alice", "")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()

	alice, err := Register(ctx, store, "alice", "pw1")
	require.NoError(t, err)
	assert.True(t, VerifyPassword(alice, "pw1"), "stored hash must verify the original password")
	assert.False(t, VerifyPassword(alice, "pw2"), "stored hash must reject any other password")

	stored, err := store.UserByName(ctx, "alice")
	require.NoError(t, err)
	assert.NotContains(t, string(stored.PasswordHash), "pw1", "the password itself is never stored")

	bob, err := Register(ctx, store, "bob", "pw1")
	require.NoError(t, err)
	assert.NotEqual(t, stored.PasswordHash, bob.PasswordHash, "same password, different salt, different hash")
}
