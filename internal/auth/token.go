package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the entropy of a session token. 32 bytes (256 bits) from
// crypto/rand makes tokens unguessable: there is no relationship between a
// token and the user it belongs to, or between any two tokens.
const tokenBytes = 32

// NewSessionToken returns a fresh opaque session token.
//
// The encoding is URL-safe base64 without padding, so the token is usable
// verbatim in a cookie value or an Authorization header. 32 random bytes
// encode to 43 characters.
//
// crypto/rand failing means the OS entropy source is broken — callers
// should treat that as a server error, never fall back to a weaker source.
func NewSessionToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
