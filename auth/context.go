package auth

import (
	"context"

	"github.com/taskdeck/taskdeck/taskstore"
)

type (
	key byte
)

var (
	principalKey = key(1)
)

// WithPrincipal stores the authenticated user in the context. Only the
// authentication gate should call this; handlers read it back and pass
// the principal explicitly to every store operation.
func WithPrincipal(ctx context.Context, user taskstore.User) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

func PrincipalFromContext(ctx context.Context) (taskstore.User, bool) {
	v := ctx.Value(principalKey)
	if v == nil {
		return taskstore.User{}, false
	}
	return v.(taskstore.User), true
}
