// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Handle is the case-sensitive login name. The UNIQUE constraint on
// users.handle in the DB is the single source of truth for uniqueness —
// the application never does its own "does this handle exist yet?" check
// before inserting, because that pattern has a race window between the
// check and the insert.
//
// PasswordHash is the bcrypt output (salt and cost embedded). It carries
// `json:"-"` so it can never leak into a response, no matter which handler
// serializes a User.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Handle       string    `json:"handle"    db:"handle"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// PublicUser is the caller-facing view of a User. It exists as a separate
// type so there is no code path where the hash rides along by accident.
type PublicUser struct {
	ID        string    `json:"id"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the caller-facing view of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Handle:    u.Handle,
		CreatedAt: u.CreatedAt,
	}
}
