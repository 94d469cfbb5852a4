// Package main is the entry point for the fitness tracker API.
//
// main stays minimal: it reads configuration, builds the logger and the
// long-lived resources, and hands them to internal/server. All behaviour
// lives in the internal packages.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/fitness-tracker/internal/auth"
	"github.com/sakif/fitness-tracker/internal/config"
	"github.com/sakif/fitness-tracker/internal/server"
)

const startupTimeout = 30 * time.Second

func main() {
	// === 1. LOAD .env ===
	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// Debug in development, info everywhere else.
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// === 3. OPEN THE STORE ===
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	store, err := server.OpenStore(ctx, cfg)
	cancel()
	if err != nil {
		logger.Error("failed to open store",
			slog.String("backend", string(cfg.Backend())),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 4. AUTH ===
	// JWT_SECRET is optional. Without it login still works but returns no token.
	var tokens *auth.TokenService
	if cfg.JWTSecret != "" {
		tokens, err = auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			store.Close()
			logger.Error("invalid JWT configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("login tokens enabled", slog.Duration("ttl", tokens.TTL()))
	} else {
		logger.Warn("JWT_SECRET not set; login will not issue tokens")
	}

	// === 5. CREATE AND START THE SERVER ===
	srv := server.New(cfg, server.Deps{
		Store:     store,
		Passwords: auth.NewPasswordService(),
		Tokens:    tokens,
	}, logger)

	// Start blocks until SIGINT/SIGTERM and closes the store on return.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
