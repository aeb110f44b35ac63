package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type (
	// Issuer mints and verifies the bearer tokens handed out after a
	// successful login. Tokens are self-contained HS256 JWTs carrying
	// the subject and an absolute expiry; nothing is kept server-side
	// and there is no revocation, a token stays valid until it expires.
	Issuer struct {
		key Key
		ttl time.Duration

		// now is replaced in tests to pin expiry checks
		now func() time.Time
	}
)

// DefaultTTL is how long a freshly issued token remains valid.
const DefaultTTL = 30 * time.Minute

// ErrInvalidToken covers every verification failure: bad signature,
// malformed payload, unexpected algorithm or natural expiry. Callers
// must not learn which one it was.
var ErrInvalidToken = errors.New("auth: invalid token")

func NewIssuer(key Key, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}
}

// Issue signs a token for the given subject, valid from now until
// now plus the issuer TTL.
func (i *Issuer) Issue(subject string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key[:])
	if err != nil {
		return "", fmt.Errorf("auth: unable to sign token, cause %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded subject
// unmodified. Any failure collapses into ErrInvalidToken.
func (i *Issuer) Verify(token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return i.key[:], nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
