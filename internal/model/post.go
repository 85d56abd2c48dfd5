package model

import "time"

// Post is a reply within a thread.
//
// AuthorID is a pointer because deployments may allow anonymous posting:
// an anonymous post has a nil AuthorID and a caller-supplied DisplayName.
// For authenticated posts DisplayName is the author's handle at posting
// time. When AuthorID is non-nil it references users.id (FK-enforced).
//
// Posts within a thread are ordered by CreatedAt ascending. Timestamps can
// collide at the store's resolution, so listing queries tie-break on ID
// ascending — xid values sort by creation time, which keeps the tie-break
// consistent with insertion order.
type Post struct {
	ID          string    `json:"id"          db:"id"`
	ThreadID    string    `json:"threadId"    db:"thread_id"`
	AuthorID    *string   `json:"authorId"    db:"author_id"`
	DisplayName string    `json:"displayName" db:"display_name"`
	Content     string    `json:"content"     db:"content"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}
