package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/taskdeck/taskdeck/taskstore"
	"golang.org/x/crypto/argon2"
)

const saltSize = 16

// ErrBadCredentials is returned for an unknown username and for a
// wrong password alike, the two cases must stay indistinguishable.
var ErrBadCredentials = errors.New("auth: invalid username or password")

// Register hashes the password with a fresh random salt and stores the
// new credential row. Duplicate usernames surface as
// taskstore.DuplicateUsername.
func Register(ctx context.Context, store *taskstore.Store, username, password string) (taskstore.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return taskstore.User{}, errors.New("auth: username and password must not be empty")
	}
	salt := make([]byte, saltSize)
	_, err := rand.Read(salt)
	if err != nil {
		return taskstore.User{}, fmt.Errorf("auth: unable to generate salt, cause %w", err)
	}
	return store.InsertUser(ctx, username, salt, hashPassword(password, salt))
}

// Login verifies the credentials against the stored hash and, on
// success, issues a fresh bearer token for the username.
func Login(ctx context.Context, store *taskstore.Store, issuer *Issuer, username, password string) (string, error) {
	user, err := store.UserByName(ctx, username)
	if err != nil {
		var notFound taskstore.UserNotFound
		if errors.As(err, &notFound) {
			return "", ErrBadCredentials
		}
		return "", err
	}
	if !VerifyPassword(user, password) {
		return "", ErrBadCredentials
	}
	return issuer.Issue(user.Username)
}

// VerifyPassword recomputes the hash over the stored salt and compares
// in constant time.
func VerifyPassword(user taskstore.User, password string) bool {
	got := hashPassword(password, user.Salt)
	return subtle.ConstantTimeCompare(got, user.PasswordHash) == 1
}

func hashPassword(password string, salt []byte) []byte {
	// 3 passes over 64 MB, the recommended argon2id setting for
	// interactive logins
	return argon2.IDKey([]byte(password), salt, 3, 64*1024, 4, KeySize)
}
