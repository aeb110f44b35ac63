package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/taskdeck/taskdeck/auth"
	"github.com/taskdeck/taskdeck/internal/logutil"
	"github.com/taskdeck/taskdeck/taskstore"
)

type (
	registerRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	registerResponse struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}

	tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
)

// AsHandler exposes the public authentication endpoints and delegates
// every other path to the protected handler, which is expected to be
// already wrapped by Realm.Protect.
func AsHandler(ctx context.Context, store *taskstore.Store, issuer *auth.Issuer, protected http.Handler) http.Handler {
	router := httprouter.New()
	router.HandlerFunc("POST", "/auth/register", registerUser(store))
	router.HandlerFunc("POST", "/auth/token", issueToken(store, issuer))
	router.HandlerFunc("GET", "/healthz", healthz)
	router.NotFound = protected
	return router
}

func registerUser(store *taskstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		user, err := auth.Register(r.Context(), store, req.Username, req.Password)
		if err != nil {
			var dup taskstore.DuplicateUsername
			if errors.As(err, &dup) {
				writeError(w, http.StatusBadRequest, dup.Error())
				return
			}
			log := logutil.GetOrDefault(r.Context())
			log.Warn().Err(err).Msg("Unable to register user")
			writeError(w, http.StatusBadRequest, "unable to register user")
			return
		}
		writeJSON(w, http.StatusOK, registerResponse{ID: user.ID, Username: user.Username})
	}
}

// issueToken implements the password grant: form-encoded credentials
// in, bearer token out.
func issueToken(store *taskstore.Store, issuer *auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		token, err := auth.Login(r.Context(), store, issuer, r.FormValue("username"), r.FormValue("password"))
		if errors.Is(err, auth.ErrBadCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		} else if err != nil {
			log := logutil.GetOrDefault(r.Context())
			log.Error().Err(err).Msg("Unable to issue token")
			writeError(w, http.StatusInternalServerError, "unable to issue token")
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

func healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, msg)
}
