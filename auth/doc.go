// Package auth owns everything between a username/password pair and an
// authenticated principal.
//
// Registration never stores the password itself: it is stretched with
// argon2id over a per-user random salt and only the resulting hash is
// kept. Login recomputes the hash and compares in constant time.
//
// A successful login yields a signed, self-contained bearer token
// (HS256 JWT) binding the username and an absolute expiry. The server
// keeps no session state for it, which also means there is no kill
// switch: a stolen token works until it expires. The TTL is short for
// exactly that reason.
//
// The signing key is mandatory external configuration. It is read from
// the environment once at startup, the variable is cleared right after,
// and a missing or malformed key aborts the process. There is no
// default key to forget to replace.
package auth
