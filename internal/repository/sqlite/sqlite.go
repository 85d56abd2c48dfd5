// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// The driver is modernc.org/sqlite — a pure Go translation of the SQLite C
// code, so no C compiler is needed and cross-compilation stays painless.
//
// The pattern throughout this package is always:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs parameterized queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
//
// Storage errors are translated into the apperror taxonomy at this
// boundary: sql.ErrNoRows → ErrNotFound, UNIQUE violations → ErrConflict,
// FK violations → ErrNotFound for the referenced resource, connection
// failures → ErrUnavailable. No raw driver error ever crosses the
// repository boundary unclassified.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// It implements every repository interface in internal/repository; the
// server wires the same *DB value into each consumer.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/forum.db"  → file-based database (persistent)
//   - ":memory:"       → in-memory database (great for tests, lost on close)
//
// sql.Open does not actually connect — the pool is lazy. We ping with a
// short fibonacci backoff (the file may be on storage that is still
// mounting at boot) and fail startup if the store never becomes
// reachable: serving traffic without a database is worse than not
// starting.
func New(dbPath string) (*DB, error) {
	// The pragmas ride in the DSN, NOT in a PRAGMA statement: database/sql
	// is a pool, and an Exec'd PRAGMA binds only to whichever connection
	// happens to run it. Every connection the pool opens must have:
	//   - foreign_keys=1: OFF by default in SQLite; the content model
	//     depends on it (threads and posts must reference existing users,
	//     posts must reference existing threads).
	//   - journal_mode=WAL: concurrent reads while a write is in progress,
	//     instead of locking the whole file per write.
	//   - busy_timeout: a writer that hits the write lock waits for it
	//     rather than failing immediately with SQLITE_BUSY. Without this,
	//     the loser of a concurrent INSERT race surfaces "database is
	//     locked" instead of the UNIQUE violation it is about to receive.
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	dsn := dbPath + sep +
		"_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	backoff := retry.WithMaxRetries(4, retry.NewFibonacci(100*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(conn.PingContext(ctx))
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to
// the New call so the WAL is flushed and the file lock released on
// shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent — safe on every startup against an existing database.
//
// Schema invariants live here, not in application code:
//   - users.handle UNIQUE is the only duplicate-registration check
//   - sessions.user_id cascades: deleting an account invalidates its
//     sessions in the same statement
//   - threads.author_id and posts.thread_id/author_id are restrictive
//     FKs: content blocks account deletion, and rows can never reference
//     an identity or thread that does not exist
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			handle        TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token      TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			expires_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating sessions table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS threads (
			id         TEXT PRIMARY KEY,
			author_id  TEXT NOT NULL REFERENCES users(id),
			title      TEXT NOT NULL,
			body       TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_threads_created_at ON threads(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating threads table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id           TEXT PRIMARY KEY,
			thread_id    TEXT NOT NULL REFERENCES threads(id),
			author_id    TEXT REFERENCES users(id),
			display_name TEXT NOT NULL,
			content      TEXT NOT NULL,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_thread_id ON posts(thread_id);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure (extended result code SQLITE_CONSTRAINT_UNIQUE). This is how a
// lost registration race surfaces: both writers INSERT, the store lets
// exactly one through, and the loser sees this error.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// isFKViolation reports whether err is a foreign key constraint failure —
// an insert referenced a user or thread that does not exist.
func isFKViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// isUnavailable reports whether err looks like the store itself failing
// (dead connection, timed-out call) rather than a data-level outcome.
func isUnavailable(err error) bool {
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone)
}
