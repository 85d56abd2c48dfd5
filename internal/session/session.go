// Package session owns the session token lifecycle: issue on login,
// resolve on every authenticated request, destroy on logout.
//
// Sessions are server-side state: the token a client holds is pure random
// bytes, and everything it means lives in the sessions table. That is what
// makes logout real — deleting the row invalidates the token immediately,
// with no denylist or wait-for-expiry. A session moves from active to
// expired (time passes) or to destroyed (logout); neither transition is
// reversible.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danicka150/fsocies/internal/apperror"
	"github.com/danicka150/fsocies/internal/auth"
	"github.com/danicka150/fsocies/internal/model"
	"github.com/danicka150/fsocies/internal/repository"
)

// Manager issues, resolves, and destroys sessions over the repository.
//
// ttl of zero means sessions never expire (the deployment decides; the
// default is set in main).
type Manager struct {
	sessions repository.SessionRepository
	ttl      time.Duration
}

// NewManager creates a Manager. ttl <= 0 disables expiry.
func NewManager(sessions repository.SessionRepository, ttl time.Duration) *Manager {
	return &Manager{sessions: sessions, ttl: ttl}
}

// Create issues a new session for userID and returns the opaque token.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return "", fmt.Errorf("session: %w", err)
	}

	now := time.Now().UTC()
	sess := &model.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
	}
	if m.ttl > 0 {
		exp := now.Add(m.ttl)
		sess.ExpiresAt = &exp
	}

	if err := m.sessions.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("session: storing session: %w", err)
	}

	return token, nil
}

// Resolve maps a token to the user ID it authenticates. An unknown or
// expired token resolves to "" with a nil error — "no session" is an
// ordinary outcome, not a failure. Expired rows are deleted on the way
// out, so an expired token can never resolve again.
//
// Store errors (as opposed to missing rows) are returned so callers never
// mistake an outage for "not logged in" on operations that require auth.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}

	sess, err := m.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("session: resolving token: %w", err)
	}

	if sess.Expired(time.Now().UTC()) {
		// Lazy cleanup; best effort. The expiry check above already
		// decided the outcome.
		_ = m.sessions.Delete(ctx, token)
		return "", nil
	}

	return sess.UserID, nil
}

// Destroy ends the session for token. Idempotent: destroying a token that
// never existed, or one already destroyed, succeeds.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("session: destroying token: %w", err)
	}
	return nil
}
