package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danicka150/fsocies/internal/apperror"
	"github.com/danicka150/fsocies/internal/service"
)

// sessionCookie is the name of the cookie carrying the session token.
const sessionCookie = "forum_session"

// AuthHandler exposes account and session endpoints:
//
//	POST /api/register → create an account
//	POST /api/login    → open a session, set the session cookie
//	POST /api/logout   → destroy the session, clear the cookie
//	GET  /api/me       → who is the caller logged in as, if anyone
//
// The session token travels in an HttpOnly SameSite=Lax cookie for
// browsers; non-browser clients may send it as "Authorization: Bearer
// <token>" instead. The handler never interprets the token — it only
// shuttles it between the transport and the service.
type AuthHandler struct {
	forum  *service.ForumService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(forum *service.ForumService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{forum: forum, logger: logger}
}

// credentialsRequest is the body of both register and login.
type credentialsRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/register
// BODY: {"handle": "alice", "password": "secret"}
//
// 201 with the public user on success, 400 on missing fields, 409 if the
// handle is taken.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	user, err := h.forum.Register(r.Context(), req.Handle, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// loginResponse bundles the public user with the token so non-cookie
// clients can store it. Browser clients can ignore the token field — the
// cookie set alongside carries the same value.
type loginResponse struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}

// HandleLogin authenticates and opens a session.
//
// HTTP: POST /api/login
// BODY: {"handle": "alice", "password": "secret"}
//
// Unknown handle and wrong password produce the identical 401 body.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	token, user, err := h.forum.Login(r.Context(), req.Handle, req.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrBadCredential) {
			writeInvalidCredentials(w)
			return
		}
		writeError(w, err)
		return
	}

	setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, loginResponse{User: user, Token: token})
}

// HandleLogout destroys the caller's session.
//
// HTTP: POST /api/logout
//
// Always 200 — logging out without a session, or twice, is fine.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)

	if err := h.forum.Logout(r.Context(), token); err != nil {
		// The cookie is cleared regardless; a store hiccup during logout
		// should still be visible to the caller as retryable.
		clearSessionCookie(w)
		writeError(w, err)
		return
	}

	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// whoAmIResponse mirrors the original /me contract: loggedIn plus the
// user when authenticated.
type whoAmIResponse struct {
	LoggedIn bool        `json:"loggedIn"`
	User     interface{} `json:"user,omitempty"`
}

// HandleMe reports the authenticated user, if any.
//
// HTTP: GET /api/me
//
// Always 200; an anonymous caller gets {"loggedIn": false}, never a 401.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.forum.WhoAmI(r.Context(), sessionToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	if user == nil {
		writeJSON(w, http.StatusOK, whoAmIResponse{LoggedIn: false})
		return
	}
	writeJSON(w, http.StatusOK, whoAmIResponse{LoggedIn: true, User: user})
}

// sessionToken extracts the session token from the request: the session
// cookie if present, otherwise a bearer Authorization header. Returns ""
// for an anonymous request.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if ah := r.Header.Get("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimPrefix(ah, "Bearer ")
	}
	return ""
}

// setSessionCookie stores the token in an HttpOnly cookie so page scripts
// cannot read it; SameSite=Lax keeps it off cross-site POSTs. Max-Age is
// left unset — the server-side expiry is authoritative, and a stale
// cookie for a destroyed session simply stops resolving.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
