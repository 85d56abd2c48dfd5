// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: every dependency — database, hasher,
// session manager, service, handlers — is constructed and wired here, in
// one place, rather than scattered across the codebase. main.go only
// supplies configuration and calls Start.
//
// Each layer receives only what it needs: the service gets repository
// interfaces (not the concrete sqlite stores), handlers get the service
// (not the repositories or the DB).
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/danicka150/fsocies/internal/auth"
	"github.com/danicka150/fsocies/internal/handler"
	"github.com/danicka150/fsocies/internal/middleware"
	sqliteRepo "github.com/danicka150/fsocies/internal/repository/sqlite"
	"github.com/danicka150/fsocies/internal/service"
	"github.com/danicka150/fsocies/internal/session"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port int
	// DBPath is the SQLite database file, or ":memory:" for an ephemeral
	// instance.
	DBPath string
	// SessionTTL bounds session lifetime; zero disables expiry.
	SessionTTL time.Duration
	// RequireAuthForPosts forbids anonymous posting when true.
	RequireAuthForPosts bool
}

// Server owns the router and the database connection. The DB is closed
// during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency graph wired:
//
//	sqlite.DB → repositories → session.Manager + ForumService → handlers → routes
//
// An unreachable database is fatal here — serving requests that can only
// fail is worse than failing startup.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes configures middleware and route handlers.
//
// Middleware order matters: RequestID first so the logger can include it,
// Recoverer so a panicking handler becomes a 500 instead of a dead
// process.
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	sessions := session.NewManager(s.db.Sessions(), s.config.SessionTTL)
	forum := service.NewForumService(
		s.db.Users(),
		s.db.Threads(),
		s.db.Posts(),
		sessions,
		auth.NewPasswordService(),
		service.Config{RequireAuthForPosts: s.config.RequireAuthForPosts},
		s.logger,
	)

	authHandler := handler.NewAuthHandler(forum, s.logger)
	forumHandler := handler.NewForumHandler(forum, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Get("/me", authHandler.HandleMe)

		r.Post("/threads", forumHandler.HandleCreateThread)
		r.Get("/threads", forumHandler.HandleListThreads)
		r.Post("/threads/{id}/posts", forumHandler.HandleCreatePost)
		r.Get("/threads/{id}/posts", forumHandler.HandleListPosts)
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
