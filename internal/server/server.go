// Package server is the composition root: it wires the store, services,
// handlers, middleware and routes, and runs the HTTP server.
//
//	main.go:   config → store → server.New
//	server.New: store → services → handlers → chi routes
//
// Each layer only receives what it needs. Services get repository
// interfaces, handlers get services, nothing but this package knows which
// backend is in use.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/fitness-tracker/internal/auth"
	"github.com/sakif/fitness-tracker/internal/config"
	"github.com/sakif/fitness-tracker/internal/handler"
	"github.com/sakif/fitness-tracker/internal/middleware"
	"github.com/sakif/fitness-tracker/internal/repository"
	"github.com/sakif/fitness-tracker/internal/service"
)

const shutdownTimeout = 30 * time.Second

// Deps are the long-lived resources the server is built from.
// Tokens may be nil, in which case login does not issue a token.
type Deps struct {
	Store     repository.Store
	Passwords *auth.PasswordService
	Tokens    *auth.TokenService
}

// Server owns the router and the store. The store is closed when Start returns.
type Server struct {
	router *chi.Mux
	config config.Config
	store  repository.Store
	logger *slog.Logger
}

func New(cfg config.Config, deps Deps, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		store:  deps.Store,
		logger: logger,
	}
	s.setupRoutes(deps)
	return s
}

// Handler exposes the fully wired router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes registers middleware and routes.
//
// ROUTES:
//
//	POST   /api/auth/login
//	POST   /api/register-survey
//	GET    /api/users/{userId}/exercises
//	POST   /api/users/{userId}/exercises
//	DELETE /api/users/{userId}/exercises/{exerciseId}
//	GET    /api/tdee/user/{id}/tdee
//	POST   /api/meals/add
//	GET    /api/meals  (and /api/meals/)
//	PUT    /api/meals/{id}
//	DELETE /api/meals/{id}
//	GET    /api/test
//
// Middleware order: request id, real IP, logging, panic recovery, CORS.
// CORS runs before routing so preflight requests never reach a handler.
func (s *Server) setupRoutes(deps Deps) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Recoverer(s.logger))
	s.router.Use(middleware.CORS(s.config.CORSOrigins))

	s.router.NotFound(handler.HandleNotFound)
	s.router.MethodNotAllowed(handler.HandleMethodNotAllowed)

	userService := service.NewUserService(deps.Store.Users(), deps.Passwords, deps.Tokens, s.logger)
	mealService := service.NewMealService(deps.Store.Meals(), s.logger)

	authHandler := handler.NewAuthHandler(userService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	mealHandler := handler.NewMealHandler(mealService, s.logger)

	r := s.router
	r.Get("/api/test", handler.HandleTest)

	r.Post("/api/auth/login", authHandler.HandleLogin)
	r.Post("/api/register-survey", authHandler.HandleRegister)

	r.Get("/api/users/{userId}/exercises", userHandler.HandleListExercises)
	r.Post("/api/users/{userId}/exercises", userHandler.HandleAddExercise)
	r.Delete("/api/users/{userId}/exercises/{exerciseId}", userHandler.HandleDeleteExercise)
	r.Get("/api/tdee/user/{id}/tdee", userHandler.HandleGetTDEE)

	r.Post("/api/meals/add", mealHandler.HandleCreate)
	r.Get("/api/meals", mealHandler.HandleList)
	r.Get("/api/meals/", mealHandler.HandleList)
	r.Put("/api/meals/{id}", mealHandler.HandleUpdate)
	r.Delete("/api/meals/{id}", mealHandler.HandleDelete)
}

// Start serves HTTP until SIGINT/SIGTERM, then drains in-flight requests
// for up to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         s.config.HTTPAddress(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("backend", string(s.config.Backend())),
			slog.String("env", s.config.AppEnv),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
