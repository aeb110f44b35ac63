package auth

import (
	"encoding/base64"
	"fmt"
	"os"
)

const (
	// SigningKeyEnvVar is the default environment variable holding the
	// base64 encoded token signing key. There is no built-in fallback
	// key: a process without this variable refuses to start.
	SigningKeyEnvVar = "TASKDECK_SIGNING_KEY"

	KeySize = 32
)

type Key [KeySize]byte

func (k *Key) Zero() {
	for i := range k {
		k[i] = 0
	}
}

// KeyFromEnv reads the signing key from the given environment variable
// and immediately clears the variable so the key does not leak into
// child processes. getfn/setfn exist for tests and default to the
// process environment.
func KeyFromEnv(varname string, getfn func(string) string, setfn func(string, string) error) (Key, error) {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	var key Key
	if len(val) == 0 {
		return key, fmt.Errorf("auth: signing key variable %v is not set, refusing to run without a key", varname)
	}
	buf, err := base64.StdEncoding.DecodeString(val)
	if err != nil {
		return key, fmt.Errorf("auth: cannot decode string to valid key, cause %v", err)
	} else if len(buf) != len(key) {
		return key, fmt.Errorf("auth: decoded key has %v bytes, expecting %v", len(buf), len(key))
	}
	copy(key[:], buf)
	return key, nil
}
