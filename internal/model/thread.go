package model

import "time"

// Thread is a top-level forum topic. Threads are immutable once created —
// there is no edit or delete in this core, so the struct has no UpdatedAt.
//
// AuthorID references users.id; the foreign key in the DB guarantees a
// thread can only be created by an existing account.
//
// AuthorHandle is populated only by listing queries (a JOIN against users)
// and is never written back to the threads table.
type Thread struct {
	ID           string    `json:"id"           db:"id"`
	AuthorID     string    `json:"authorId"     db:"author_id"`
	AuthorHandle string    `json:"authorHandle" db:"author_handle"`
	Title        string    `json:"title"        db:"title"`
	Body         string    `json:"body"         db:"body"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
}
