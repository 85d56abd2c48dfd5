// Package service contains the business logic layer of the application.
//
// The layering follows the usual three tiers:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// ForumService composes the credential store, the password hasher, the
// session manager, and the content repositories into the eight use cases
// the forum exposes. It knows nothing about HTTP: inputs are primitives,
// outputs are models and domain errors. The handler translates both ways.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danicka150/fsocies/internal/apperror"
	"github.com/danicka150/fsocies/internal/auth"
	"github.com/danicka150/fsocies/internal/model"
	"github.com/danicka150/fsocies/internal/repository"
	"github.com/danicka150/fsocies/internal/session"
)

// Validation constants.
const (
	MaxHandleLength  = 32
	MaxTitleLength   = 200
	MaxBodyLength    = 10000
	MaxContentLength = 10000
)

// Config carries deployment policy for the forum.
type Config struct {
	// RequireAuthForPosts controls whether CreatePost demands a valid
	// session. When false, anonymous posting is allowed with a free-text
	// display name instead.
	RequireAuthForPosts bool
}

// ForumService handles the forum's business logic.
//
// All dependencies are injected: repositories as interfaces (swappable
// for in-memory fakes in tests), the hasher and session manager as
// concrete collaborators.
type ForumService struct {
	users     repository.UserRepository
	threads   repository.ThreadRepository
	posts     repository.PostRepository
	sessions  *session.Manager
	passwords *auth.PasswordService
	cfg       Config
	logger    *slog.Logger
}

// NewForumService creates a ForumService with all required dependencies.
func NewForumService(
	users repository.UserRepository,
	threads repository.ThreadRepository,
	posts repository.PostRepository,
	sessions *session.Manager,
	passwords *auth.PasswordService,
	cfg Config,
	logger *slog.Logger,
) *ForumService {
	return &ForumService{
		users:     users,
		threads:   threads,
		posts:     posts,
		sessions:  sessions,
		passwords: passwords,
		cfg:       cfg,
		logger:    logger,
	}
}

// Register creates a new account.
//
// Validation happens here, before any store access: empty handle or
// password is rejected as a validation error. Uniqueness is NOT checked
// here — the repository surfaces the store's UNIQUE constraint as
// ErrConflict, which is the only duplicate signal (a pre-check would
// race against concurrent registrations).
//
// The returned view never contains the password hash.
func (s *ForumService) Register(ctx context.Context, handle, password string) (*model.PublicUser, error) {
	handle = strings.TrimSpace(handle)

	if handle == "" {
		return nil, apperror.ValidationFailed("handle", "handle is required")
	}
	if len(handle) > MaxHandleLength {
		return nil, apperror.ValidationFailed("handle",
			fmt.Sprintf("handle must be %d characters or less", MaxHandleLength))
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("registering %q: %w", handle, err)
	}

	user := &model.User{
		Handle:       handle,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			s.logger.Info("registration rejected, handle taken",
				slog.String("handle", handle))
			return nil, err
		}
		return nil, fmt.Errorf("registering %q: %w", handle, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("handle", user.Handle),
	)

	pub := user.Public()
	return &pub, nil
}

// Login authenticates a handle/password pair and opens a session.
//
// An unknown handle and a wrong password are distinct errors internally
// (ErrNotFound vs ErrBadCredential) — useful in logs — but the handler
// collapses both into one "invalid credentials" response so the login
// endpoint cannot be used to enumerate handles.
func (s *ForumService) Login(ctx context.Context, handle, password string) (string, *model.PublicUser, error) {
	handle = strings.TrimSpace(handle)

	if handle == "" {
		return "", nil, apperror.ValidationFailed("handle", "handle is required")
	}
	if password == "" {
		return "", nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("login failed, unknown handle", slog.String("handle", handle))
			return "", nil, err
		}
		return "", nil, fmt.Errorf("logging in %q: %w", handle, err)
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		s.logger.Info("login failed, wrong password",
			slog.String("userID", user.ID),
			slog.String("handle", handle),
		)
		return "", nil, apperror.BadCredential()
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("logging in %q: %w", handle, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("handle", user.Handle),
	)

	pub := user.Public()
	return token, &pub, nil
}

// Logout destroys the session for token. Always succeeds for an absent
// or already-destroyed token — logout is idempotent.
func (s *ForumService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// WhoAmI returns the account the token authenticates, or nil if the
// token is missing, unknown, or expired. "Not logged in" is an ordinary
// answer here, never an error.
func (s *ForumService) WhoAmI(ctx context.Context, token string) (*model.PublicUser, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	if userID == "" {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		// A session row outliving its user means the cascade is broken;
		// report unauthenticated rather than failing the request.
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching session user: %w", err)
	}

	pub := user.Public()
	return &pub, nil
}

// CreateThread creates a new thread owned by the session's user.
// Requires a valid session; the title must be non-empty.
func (s *ForumService) CreateThread(ctx context.Context, token, title, body string) (*model.Thread, error) {
	user, err := s.requireSession(ctx, token)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "thread title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if len(body) > MaxBodyLength {
		return nil, apperror.ValidationFailed("body",
			fmt.Sprintf("body must be %d characters or less", MaxBodyLength))
	}

	thread := &model.Thread{
		AuthorID: user.ID,
		Title:    title,
		Body:     strings.TrimSpace(body),
	}
	if err := s.threads.Create(ctx, thread); err != nil {
		return nil, fmt.Errorf("creating thread: %w", err)
	}
	thread.AuthorHandle = user.Handle

	s.logger.Info("thread created",
		slog.String("threadID", thread.ID),
		slog.String("authorID", user.ID),
	)

	return thread, nil
}

// ListThreads returns all threads newest-first, with author handles
// joined in. No authentication required.
func (s *ForumService) ListThreads(ctx context.Context) ([]model.Thread, error) {
	threads, err := s.threads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}
	return threads, nil
}

// CreatePost adds a post to a thread.
//
// With RequireAuthForPosts set, a valid session is mandatory and the
// post's display name is the author's handle. Otherwise a session is
// still used when present; an anonymous caller must supply a non-empty
// display name instead.
//
// The thread is verified before the insert so an unknown thread surfaces
// as its own error rather than a bare FK violation.
func (s *ForumService) CreatePost(ctx context.Context, token, threadID, displayName, content string) (*model.Post, error) {
	var author *model.User

	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	if userID != "" {
		author, err = s.users.GetByID(ctx, userID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("creating post: %w", err)
		}
	}

	if author == nil {
		if s.cfg.RequireAuthForPosts {
			return nil, apperror.Unauthorized("posting requires login")
		}
		displayName = strings.TrimSpace(displayName)
		if displayName == "" {
			return nil, apperror.ValidationFailed("displayName", "display name is required")
		}
		if len(displayName) > MaxHandleLength {
			return nil, apperror.ValidationFailed("displayName",
				fmt.Sprintf("display name must be %d characters or less", MaxHandleLength))
		}
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "post content is required")
	}
	if len(content) > MaxContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("content must be %d characters or less", MaxContentLength))
	}

	if _, err := s.threads.GetByID(ctx, threadID); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	post := &model.Post{
		ThreadID: threadID,
		Content:  content,
	}
	if author != nil {
		post.AuthorID = &author.ID
		post.DisplayName = author.Handle
	} else {
		post.DisplayName = displayName
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("threadID", threadID),
		slog.Bool("anonymous", author == nil),
	)

	return post, nil
}

// ListPosts returns a thread's posts in creation order. The thread is
// verified first so an unknown thread is an error, not an empty list.
func (s *ForumService) ListPosts(ctx context.Context, threadID string) ([]model.Post, error) {
	if _, err := s.threads.GetByID(ctx, threadID); err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	posts, err := s.posts.ListByThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// requireSession resolves token and loads its user, returning
// ErrUnauthorized when the token is missing, unknown, or expired.
func (s *ForumService) requireSession(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	if userID == "" {
		return nil, apperror.Unauthorized("login required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("login required")
		}
		return nil, fmt.Errorf("fetching session user: %w", err)
	}
	return user, nil
}
