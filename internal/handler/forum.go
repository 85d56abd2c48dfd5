package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/danicka150/fsocies/internal/apperror"
	"github.com/danicka150/fsocies/internal/service"
)

// ForumHandler exposes the thread and post endpoints:
//
//	POST /api/threads             → create a thread (login required)
//	GET  /api/threads             → list threads, newest first
//	POST /api/threads/{id}/posts  → add a post to a thread
//	GET  /api/threads/{id}/posts  → list a thread's posts in creation order
//
// Listing endpoints require no authentication.
type ForumHandler struct {
	forum  *service.ForumService
	logger *slog.Logger
}

// NewForumHandler creates a ForumHandler.
func NewForumHandler(forum *service.ForumService, logger *slog.Logger) *ForumHandler {
	return &ForumHandler{forum: forum, logger: logger}
}

type createThreadRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// HandleCreateThread creates a thread owned by the logged-in user.
//
// HTTP: POST /api/threads
// BODY: {"title": "hello", "body": "first"}
func (h *ForumHandler) HandleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req createThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	thread, err := h.forum.CreateThread(r.Context(), sessionToken(r), req.Title, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, thread)
}

// HandleListThreads returns all threads, newest first, with author handles.
//
// HTTP: GET /api/threads
func (h *ForumHandler) HandleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.forum.ListThreads(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, threads)
}

type createPostRequest struct {
	Content     string `json:"content"`
	DisplayName string `json:"displayName"` // only honored for anonymous posts
}

// HandleCreatePost adds a post to the thread in the URL.
//
// HTTP: POST /api/threads/{id}/posts
// BODY: {"content": "a reply", "displayName": "guest"}
//
// Whether an anonymous caller is accepted is deployment policy; when they
// are, displayName substitutes for a handle.
func (h *ForumHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("id")
	if threadID == "" {
		writeError(w, apperror.ValidationFailed("id", "thread id is required"))
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	post, err := h.forum.CreatePost(r.Context(), sessionToken(r), threadID, req.DisplayName, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleListPosts returns a thread's posts in creation order.
//
// HTTP: GET /api/threads/{id}/posts
//
// 404 if the thread does not exist (distinct from an existing thread
// with no posts yet, which is 200 with an empty list).
func (h *ForumHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("id")
	if threadID == "" {
		writeError(w, apperror.ValidationFailed("id", "thread id is required"))
		return
	}

	posts, err := h.forum.ListPosts(r.Context(), threadID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}
