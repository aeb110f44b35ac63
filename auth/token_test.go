package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer(testKey(1), time.Minute)
	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	subject, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject, "subject must come back unmodified")
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewIssuer(testKey(1), time.Minute)
	issuer.now = func() time.Time { return base }

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	issuer.now = func() time.Time { return base.Add(30 * time.Second) }
	_, err = issuer.Verify(token)
	require.NoError(t, err, "token must stay valid until expiry")

	issuer.now = func() time.Time { return base.Add(time.Minute + time.Second) }
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "token must die at expiry")
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	issuer := NewIssuer(testKey(1), time.Minute)
	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	_, err = issuer.Verify(strings.Join([]string{parts[0], parts[1], string(sig)}, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	token, err := NewIssuer(testKey(1), time.Minute).Issue("alice")
	require.NoError(t, err)
	_, err = NewIssuer(testKey(2), time.Minute).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewIssuer(testKey(1), time.Minute)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewIssuer(testKey(1), time.Minute).Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg=none must never pass")
}

func testKey(fill byte) Key {
	var k Key
	for i := range k {
		k[i] = fill
	}
	return k
}
