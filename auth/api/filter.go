package api

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/taskdeck/taskdeck/auth"
	"github.com/taskdeck/taskdeck/internal/logutil"
	"github.com/taskdeck/taskdeck/taskstore"
)

type (
	// Realm guards the task endpoints. Every request must carry a
	// bearer token whose subject resolves to a known user; the resolved
	// principal rides the request context into the handlers.
	Realm struct {
		store  *taskstore.Store
		issuer *auth.Issuer
		users  auth.PrincipalCache
	}
)

var (
	bearerTokenRE = regexp.MustCompile(`^Bearer ([^\s]+)$`)
)

func NewRealm(store *taskstore.Store, issuer *auth.Issuer, users auth.PrincipalCache) *Realm {
	return &Realm{
		store:  store,
		issuer: issuer,
		users:  users,
	}
}

func (s *Realm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := s.authenticate(r)
		if !ok {
			// missing header, bad token and unknown subject all look
			// the same from the outside
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

func (s *Realm) authenticate(r *http.Request) (taskstore.User, bool) {
	ctx := r.Context()
	log := logutil.GetOrDefault(ctx)
	groups := bearerTokenRE.FindStringSubmatch(r.Header.Get("Authorization"))
	if len(groups) == 0 {
		return taskstore.User{}, false
	}
	subject, err := s.issuer.Verify(groups[1])
	if err != nil {
		return taskstore.User{}, false
	}
	user, found, err := s.users.Lookup(ctx, subject)
	if err != nil {
		log.Warn().Err(err).Msg("Unexpected error when checking principal cache")
	} else if found {
		return user, true
	}
	user, err = s.store.UserByName(ctx, subject)
	if err != nil {
		var notFound taskstore.UserNotFound
		if !errors.As(err, &notFound) {
			log.Error().Err(err).Msg("Unexpected error resolving token subject")
		}
		return taskstore.User{}, false
	}
	if err := s.users.Save(ctx, user); err != nil {
		log.Warn().Err(err).Msg("Unable to cache resolved principal")
	}
	return user, true
}
