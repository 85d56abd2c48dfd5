package model

import "time"

// Session maps an opaque token to an authenticated user.
//
// Token is 32 bytes from crypto/rand, base64url-encoded — it carries no
// information about the user and cannot be derived from another token.
// The token itself is the primary key; resolving a session is a single
// indexed lookup.
//
// ExpiresAt is nil for sessions without an expiry (the deployment can
// disable TTL entirely). A session ends either by explicit logout, which
// deletes the row, or by passing ExpiresAt; there is no way back to a
// live session from either state.
type Session struct {
	Token     string     `json:"-"         db:"token"`
	UserID    string     `json:"userId"    db:"user_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt *time.Time `json:"expiresAt" db:"expires_at"`
}

// Expired reports whether the session has passed its expiry at time now.
// Sessions without an expiry never expire.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}
