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

// ThreadStore implements repository.ThreadRepository over the shared pool.
type ThreadStore struct {
	db *DB
}

// Threads returns the thread store view of the database.
func (db *DB) Threads() *ThreadStore {
	return &ThreadStore{db: db}
}

// compile-time check that *ThreadStore implements repository.ThreadRepository
var _ repository.ThreadRepository = (*ThreadStore)(nil)

// Create inserts a new thread. The FK on author_id enforces that the
// author exists at creation time; a violation surfaces as ErrNotFound
// for the user rather than a generic storage error.
func (s *ThreadStore) Create(ctx context.Context, thread *model.Thread) error {
	thread.ID = xid.New().String()
	thread.CreatedAt = time.Now().UTC()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO threads (id, author_id, title, body, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		thread.ID,
		thread.AuthorID,
		thread.Title,
		thread.Body,
		thread.CreatedAt,
	)
	if err != nil {
		if isFKViolation(err) {
			return apperror.NotFound("user", thread.AuthorID)
		}
		if isUnavailable(err) {
			return apperror.Unavailable(err)
		}
		return fmt.Errorf("sqlite: inserting thread: %w", err)
	}

	return nil
}

// GetByID retrieves a single thread joined with its author's handle.
// Returns apperror.ErrNotFound if no such thread exists.
func (s *ThreadStore) GetByID(ctx context.Context, id string) (*model.Thread, error) {
	var t model.Thread

	err := s.db.conn.QueryRowContext(ctx,
		`SELECT t.id, t.author_id, u.handle, t.title, t.body, t.created_at
		 FROM threads t
		 JOIN users u ON u.id = t.author_id
		 WHERE t.id = ?`,
		id,
	).Scan(
		&t.ID,
		&t.AuthorID,
		&t.AuthorHandle,
		&t.Title,
		&t.Body,
		&t.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("thread", id)
		}
		if isUnavailable(err) {
			return nil, apperror.Unavailable(err)
		}
		return nil, fmt.Errorf("sqlite: getting thread %s: %w", id, err)
	}

	return &t, nil
}

// List returns all threads newest-first, each joined with the author's
// handle. Every call re-queries current state — there is no cache layer,
// so a listing immediately reflects concurrent inserts.
func (s *ThreadStore) List(ctx context.Context) ([]model.Thread, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT t.id, t.author_id, u.handle, t.title, t.body, t.created_at
		 FROM threads t
		 JOIN users u ON u.id = t.author_id
		 ORDER BY t.created_at DESC, t.id DESC`,
	)
	if err != nil {
		if isUnavailable(err) {
			return nil, apperror.Unavailable(err)
		}
		return nil, fmt.Errorf("sqlite: listing threads: %w", err)
	}
	defer rows.Close()

	threads := make([]model.Thread, 0)
	for rows.Next() {
		var t model.Thread
		if err := rows.Scan(
			&t.ID, &t.AuthorID, &t.AuthorHandle,
			&t.Title, &t.Body, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning thread row: %w", err)
		}
		threads = append(threads, t)
	}

	// rows.Err catches failures that happen mid-iteration (e.g. the
	// connection dropping), which Next silently swallows.
	if err := rows.Err(); err != nil {
		if isUnavailable(err) {
			return nil, apperror.Unavailable(err)
		}
		return nil, fmt.Errorf("sqlite: iterating threads: %w", err)
	}

	return threads, nil
}
