package auth

import (
	"encoding/base64"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFromEnv(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(make([]byte, KeySize))
	os.Setenv("TASKDECK_TEST_KEY", encoded)
	key, err := KeyFromEnv("TASKDECK_TEST_KEY", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Key{}, key)
	assert.Empty(t, os.Getenv("TASKDECK_TEST_KEY"), "reading the key should remove it from the environment")
}

func TestKeyFromEnvRequiresKey(t *testing.T) {
	os.Unsetenv("TASKDECK_TEST_KEY")
	_, err := KeyFromEnv("TASKDECK_TEST_KEY", nil, nil)
	assert.Error(t, err, "a missing key must abort startup, there is no default")
}

func TestKeyFromEnvRejectsShortKey(t *testing.T) {
	os.Setenv("TASKDECK_TEST_KEY", base64.StdEncoding.EncodeToString([]byte("too short")))
	_, err := KeyFromEnv("TASKDECK_TEST_KEY", nil, nil)
	assert.Error(t, err)
}

func TestKeyFromEnvRejectsBadEncoding(t *testing.T) {
	os.Setenv("TASKDECK_TEST_KEY", "*** definitely not base64 ***")
	_, err := KeyFromEnv("TASKDECK_TEST_KEY", nil, nil)
	assert.Error(t, err)
}
