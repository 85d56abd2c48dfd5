package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danicka150/fsocies/internal/apperror"
	"github.com/danicka150/fsocies/internal/model"
	"github.com/danicka150/fsocies/internal/repository"
)

// SessionStore implements repository.SessionRepository over the shared pool.
type SessionStore struct {
	db *DB
}

// Sessions returns the session store view of the database.
func (db *DB) Sessions() *SessionStore {
	return &SessionStore{db: db}
}

// compile-time check that *SessionStore implements repository.SessionRepository
var _ repository.SessionRepository = (*SessionStore)(nil)

// Create persists a session row. The token is generated by the caller
// (the session manager) — the repository only stores the association.
// The FK on user_id rejects a session for a user that no longer exists.
func (s *SessionStore) Create(ctx context.Context, session *model.Session) error {
	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		session.Token,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		if isFKViolation(err) {
			return apperror.NotFound("user", session.UserID)
		}
		if isUnavailable(err) {
			return apperror.Unavailable(err)
		}
		return fmt.Errorf("sqlite: inserting session: %w", err)
	}
	return nil
}

// Get retrieves a session row by token. Expiry is not checked here — the
// session manager owns that rule; the repository reports what is stored.
// Returns apperror.ErrNotFound for an unknown token.
func (s *SessionStore) Get(ctx context.Context, token string) (*model.Session, error) {
	var sess model.Session

	err := s.db.conn.QueryRowContext(ctx,
		`SELECT token, user_id, created_at, expires_at
		 FROM sessions WHERE token = ?`,
		token,
	).Scan(
		&sess.Token,
		&sess.UserID,
		&sess.CreatedAt,
		&sess.ExpiresAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// Never echo the token back in the error message.
			return nil, apperror.NotFound("session", "token")
		}
		if isUnavailable(err) {
			return nil, apperror.Unavailable(err)
		}
		return nil, fmt.Errorf("sqlite: getting session: %w", err)
	}

	return &sess, nil
}

// Delete removes a session row. Deleting a token that is already absent
// is not an error — logout is idempotent.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		if isUnavailable(err) {
			return apperror.Unavailable(err)
		}
		return fmt.Errorf("sqlite: deleting session: %w", err)
	}
	return nil
}
