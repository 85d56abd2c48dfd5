package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/danicka150/fsocies/internal/apperror"
	"github.com/danicka150/fsocies/internal/model"
	"github.com/danicka150/fsocies/internal/repository"
)

// UserStore implements repository.UserRepository over the shared pool.
type UserStore struct {
	db *DB
}

// Users returns the user store view of the database.
func (db *DB) Users() *UserStore {
	return &UserStore{db: db}
}

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// Create inserts a new user row.
//
// There is deliberately no "SELECT ... WHERE handle = ?" before the
// INSERT. A pre-check would open a race window between check and insert;
// instead the UNIQUE constraint on handle arbitrates. When two concurrent
// registrations collide, the store commits exactly one and the other
// lands here as a unique violation, returned as ErrConflict. This also
// makes a retried Create after a transient failure safe — it can never
// double-insert.
//
// On success the caller's struct is populated with the generated ID and
// CreatedAt (pointer receiver, modified in place).
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO users (id, handle, password_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.ID,
		user.Handle,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Handle)
		}
		if isUnavailable(err) {
			return apperror.Unavailable(err)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Handle, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no such user exists.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx,
		`SELECT id, handle, password_hash, created_at FROM users WHERE id = ?`,
		id)
}

// GetByHandle retrieves a user by handle. The lookup is case-sensitive,
// matching the uniqueness constraint.
// Returns apperror.ErrNotFound if no such user exists.
func (s *UserStore) GetByHandle(ctx context.Context, handle string) (*model.User, error) {
	return s.getUser(ctx,
		`SELECT id, handle, password_hash, created_at FROM users WHERE handle = ?`,
		handle)
}

func (s *UserStore) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User

	err := s.db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Handle,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", arg)
		}
		if isUnavailable(err) {
			return nil, apperror.Unavailable(err)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", arg, err)
	}

	return &u, nil
}
