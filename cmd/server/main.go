// Package main is the entry point for the forum server.
//
// main stays minimal: read configuration from the environment, build the
// logger, hand both to the server package. All actual logic lives in
// internal/.
//
// Environment variables:
//
//	PORT                (default 8080)
//	DB_PATH             (default data/forum.db)
//	SESSION_TTL_HOURS   (default 168 = 7 days; 0 disables expiry)
//	REQUIRE_AUTH_POSTS  (default true; set to "false" to allow anonymous posts)
//	LOG_LEVEL           (debug|info|warn|error, default info)
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/danicka150/fsocies/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/forum.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", filepath.Dir(dbPath)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	sessionTTL := 168 * time.Hour
	if ttlStr := os.Getenv("SESSION_TTL_HOURS"); ttlStr != "" {
		hours, err := strconv.Atoi(ttlStr)
		if err != nil || hours < 0 {
			logger.Error("invalid SESSION_TTL_HOURS value", slog.String("value", ttlStr))
			os.Exit(1)
		}
		sessionTTL = time.Duration(hours) * time.Hour
	}

	requireAuthPosts := true
	if v := os.Getenv("REQUIRE_AUTH_POSTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Error("invalid REQUIRE_AUTH_POSTS value", slog.String("value", v))
			os.Exit(1)
		}
		requireAuthPosts = b
	}

	cfg := server.Config{
		Port:                port,
		DBPath:              dbPath,
		SessionTTL:          sessionTTL,
		RequireAuthForPosts: requireAuthPosts,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
