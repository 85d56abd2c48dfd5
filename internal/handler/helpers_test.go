package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/danicka150/fsocies/internal/auth"
	"github.com/danicka150/fsocies/internal/handler"
	"github.com/danicka150/fsocies/internal/repository/sqlite"
	"github.com/danicka150/fsocies/internal/service"
	"github.com/danicka150/fsocies/internal/session"
)

// testHandlers wires the real service stack over a throwaway database, so
// handler tests exercise exactly what production serves. Request routing
// is bypassed: handlers are invoked directly, with path values set on the
// request where needed.
type testHandlers struct {
	auth  *handler.AuthHandler
	forum *handler.ForumHandler
}

func newTestHandlers(t *testing.T, cfg service.Config) *testHandlers {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	sessions := session.NewManager(db.Sessions(), time.Hour)
	forum := service.NewForumService(
		db.Users(),
		db.Threads(),
		db.Posts(),
		sessions,
		auth.NewPasswordServiceWithCost(bcrypt.MinCost),
		cfg,
		logger,
	)

	return &testHandlers{
		auth:  handler.NewAuthHandler(forum, logger),
		forum: handler.NewForumHandler(forum, logger),
	}
}

// postJSON builds a POST request with a JSON string body.
func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// register creates an account through the handler and fails the test if
// anything but 201 comes back.
func (h *testHandlers) register(t *testing.T, handle, password string) {
	t.Helper()

	rr := httptest.NewRecorder()
	h.auth.HandleRegister(rr, postJSON("/api/register",
		`{"handle":"`+handle+`","password":"`+password+`"}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %q: status = %d, body = %s", handle, rr.Code, rr.Body.String())
	}
}

// login opens a session through the handler and returns the token.
func (h *testHandlers) login(t *testing.T, handle, password string) string {
	t.Helper()

	rr := httptest.NewRecorder()
	h.auth.HandleLogin(rr, postJSON("/api/login",
		`{"handle":"`+handle+`","password":"`+password+`"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("login %q: status = %d, body = %s", handle, rr.Code, rr.Body.String())
	}

	var res struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}
	if res.Token == "" {
		t.Fatal("login response has no token")
	}
	return res.Token
}

// createThread makes a thread as the given token's user and returns its ID.
func (h *testHandlers) createThread(t *testing.T, token, title string) string {
	t.Helper()

	req := postJSON("/api/threads", `{"title":"`+title+`"}`)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.forum.HandleCreateThread(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create thread: status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decoding thread response: %v", err)
	}
	return res.ID
}

// errorCode decodes the machine-readable error code from an error body.
func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var res struct {
		Error string `json:"error"`
	}
	err := json.NewDecoder(rr.Body).Decode(&res)
	assert.NoError(t, err)
	return res.Error
}
