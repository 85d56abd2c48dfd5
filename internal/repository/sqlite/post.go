package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/danicka150/fsocies/internal/apperror"
	"github.com/danicka150/fsocies/internal/model"
	"github.com/danicka150/fsocies/internal/repository"
)

// PostStore implements repository.PostRepository over the shared pool.
type PostStore struct {
	db *DB
}

// Posts returns the post store view of the database.
func (db *DB) Posts() *PostStore {
	return &PostStore{db: db}
}

// compile-time check that *PostStore implements repository.PostRepository
var _ repository.PostRepository = (*PostStore)(nil)

// Create inserts a new post. Both FKs are enforced by the store:
// thread_id must reference an existing thread and author_id (when
// non-nil) an existing user. SQLite does not report which FK failed, so
// a violation names every reference the row carried — the service
// pre-checks the thread, but the author can still vanish between session
// resolution and this insert.
func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now().UTC()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, thread_id, author_id, display_name, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.ThreadID,
		post.AuthorID,
		post.DisplayName,
		post.Content,
		post.CreatedAt,
	)
	if err != nil {
		if isFKViolation(err) {
			if post.AuthorID == nil {
				return apperror.NotFound("thread", post.ThreadID)
			}
			return apperror.NotFound("thread or author",
				post.ThreadID+" / "+*post.AuthorID)
		}
		if isUnavailable(err) {
			return apperror.Unavailable(err)
		}
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}

	return nil
}

// ListByThread returns the posts of a thread in creation order. The ORDER
// BY tie-breaks on id when two posts share a created_at at the store's
// timestamp resolution; xid values sort by creation time, so the result
// matches insertion order.
//
// An unknown threadID yields an empty slice here; the service turns that
// into UnknownThread by checking the thread first.
func (s *PostStore) ListByThread(ctx context.Context, threadID string) ([]model.Post, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, thread_id, author_id, display_name, content, created_at
		 FROM posts
		 WHERE thread_id = ?
		 ORDER BY created_at ASC, id ASC`,
		threadID,
	)
	if err != nil {
		if isUnavailable(err) {
			return nil, apperror.Unavailable(err)
		}
		return nil, fmt.Errorf("sqlite: listing posts for thread %s: %w", threadID, err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.ThreadID, &p.AuthorID,
			&p.DisplayName, &p.Content, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		if isUnavailable(err) {
			return nil, apperror.Unavailable(err)
		}
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}
