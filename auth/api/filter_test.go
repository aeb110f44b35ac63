package api

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/steinfletcher/apitest"
	"github.com/taskdeck/taskdeck/auth"
	"github.com/taskdeck/taskdeck/internal/testutil"
)

func TestProtect(t *testing.T) {
	ctx := context.Background()
	store, cleanup := testutil.AcquireStore(ctx, t)
	defer cleanup()
	issuer := auth.NewIssuer(auth.Key{1}, time.Minute)
	sr := NewRealm(store, issuer, auth.InMemoryPrincipalCache())

	_, err := auth.Register(ctx, store, "alice", "pw1")
	if err != nil {
		t.Fatal(err)
	}

	var count uint32
	protected := sr.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok || principal.Username != "alice" {
			t.Errorf("handler must see the resolved principal, got %v", principal)
		}
		atomic.AddUint32(&count, 1)
		http.Error(w, "OK", http.StatusOK)
	}))

	apitest.Handler(protected).Get("/").Expect(t).Status(http.StatusUnauthorized).End()
	apitest.Handler(protected).Get("/").Header("Authorization", "Bearer garbage").Expect(t).Status(http.StatusUnauthorized).End()
	apitest.Handler(protected).Get("/").Header("Authorization", "NotBearer abc").Expect(t).Status(http.StatusUnauthorized).End()

	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatal(err)
	}
	apitest.Handler(protected).Get("/").Header("Authorization", fmt.Sprintf("Bearer %v", token)).Expect(t).Status(http.StatusOK).End()
	// second pass is served from the principal cache
	apitest.Handler(protected).Get("/").Header("Authorization", fmt.Sprintf("Bearer %v", token)).Expect(t).Status(http.StatusOK).End()
	if count != 2 {
		t.Fatal("Protected endpoint should have been called exactly twice, got", count)
	}

	// valid signature, but the subject does not resolve to a user
	ghost, err := issuer.Issue("ghost")
	if err != nil {
		t.Fatal(err)
	}
	apitest.Handler(protected).Get("/").Header("Authorization", fmt.Sprintf("Bearer %v", ghost)).Expect(t).Status(http.StatusUnauthorized).End()
}
