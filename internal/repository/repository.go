// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage provides the real implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/danicka150/fsocies/internal/model"
)

// UserRepository persists accounts. Uniqueness of the handle is enforced
// by the store's UNIQUE constraint: Create on a taken handle returns
// apperror.ErrConflict, and the constraint — not an application-level
// pre-check — is the only uniqueness signal.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByHandle(ctx context.Context, handle string) (*model.User, error)
}

// SessionRepository persists session rows keyed by token.
// Get returns apperror.ErrNotFound for an unknown token; Delete is
// idempotent (deleting an absent token is not an error).
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
}

// ThreadRepository persists threads. List returns threads newest-first,
// each joined with its author's handle, re-querying current state on
// every call.
type ThreadRepository interface {
	Create(ctx context.Context, thread *model.Thread) error
	GetByID(ctx context.Context, id string) (*model.Thread, error)
	List(ctx context.Context) ([]model.Thread, error)
}

// PostRepository persists posts. ListByThread returns posts in creation
// order (created_at ascending, id ascending on timestamp collision).
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	ListByThread(ctx context.Context, threadID string) ([]model.Post, error)
}
