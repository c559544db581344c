// Package server provides the HTTP server for the task tracker API.
// It handles routing, middleware configuration, and server lifecycle
// management.
//
// The server follows a structured initialization order with dependency
// injection: database → auth providers → repositories → services →
// handlers → routes. It handles graceful shutdown so in-flight requests
// complete before the process exits.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/taskvault/taskvault-backend/internal/auth"
	"github.com/taskvault/taskvault-backend/internal/config"
	"github.com/taskvault/taskvault-backend/internal/constants"
	"github.com/taskvault/taskvault-backend/internal/database"
	"github.com/taskvault/taskvault-backend/internal/handlers"
	"github.com/taskvault/taskvault-backend/internal/repository"
	"github.com/taskvault/taskvault-backend/internal/service"
	"github.com/taskvault/taskvault-backend/migrations"
	"github.com/taskvault/taskvault-backend/scripts"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler manages registration and login endpoints
	AuthHandler *handlers.AuthHandler

	// PasswordResetHandler manages credential-recovery endpoints
	PasswordResetHandler *handlers.PasswordResetHandler

	// TaskHandler manages task and tag endpoints
	TaskHandler *handlers.TaskHandler

	// HealthHandler reports service liveness
	HealthHandler *handlers.HealthHandler
}

// repositories holds the data access layer for the server.
type repositories struct {
	userRepo  repository.UserRepository
	taskRepo  repository.TaskRepository
	tagRepo   repository.TagRepository
	resetRepo repository.PasswordResetRepository
}

// services holds the business logic layer for the server.
type services struct {
	authService *service.AuthService
	taskService *service.TaskService
}

// Server represents the API server for the task tracker application.
// It encapsulates all server components and handles server lifecycle
// management, including initialization, startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// jwtService handles token generation and validation
	jwtService *auth.JWTService

	// passwordCfg contains password hashing parameters
	passwordCfg *auth.PasswordConfig

	repos *repositories
	svcs  *services

	// router handles HTTP routing
	router chi.Router

	// httpServer is the underlying HTTP server
	httpServer *http.Server
}

// NewServer creates a new server instance with all required components.
// It connects to the database, runs migrations, wires repositories,
// services and handlers, then sets up the HTTP routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	s.setupAuthProviders()
	s.setupRepositories()
	s.setupServices()
	s.setupHandlers()
	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase connects to the database and brings the schema up to date.
func (s *Server) setupDatabase() error {
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}

	s.Db = db

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return s.setupSeedData()
}

// setupSeedData populates demo data in development environments.
// Testing and production databases are never seeded.
func (s *Server) setupSeedData() error {
	if !s.Config.App.IsDevelopment() {
		return nil
	}

	seeder := scripts.NewSeeder(s.Db)
	if err := seeder.SeedDatabase(context.Background()); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	return nil
}

// setupAuthProviders initializes token and password hashing services.
func (s *Server) setupAuthProviders() {
	s.jwtService = auth.NewJWTService(&s.Config.JWT)
	s.passwordCfg = auth.ConfigFromAppConfig(s.Config)
}

// setupRepositories initializes the data access layer.
func (s *Server) setupRepositories() {
	s.repos = &repositories{
		userRepo:  repository.NewUserRepository(s.Db),
		taskRepo:  repository.NewTaskRepository(s.Db),
		tagRepo:   repository.NewTagRepository(s.Db),
		resetRepo: repository.NewPasswordResetRepository(s.Db),
	}
}

// setupServices initializes the business logic layer.
func (s *Server) setupServices() {
	emailService := service.NewEmailService(&s.Config.Email)

	s.svcs = &services{
		authService: service.NewAuthService(
			s.repos.userRepo,
			s.repos.resetRepo,
			s.jwtService,
			s.passwordCfg,
			emailService,
		),
		taskService: service.NewTaskService(
			s.repos.taskRepo,
			s.repos.tagRepo,
		),
	}
}

// setupHandlers initializes all HTTP request handlers.
func (s *Server) setupHandlers() {
	s.Handlers = &Handlers{
		AuthHandler:          handlers.NewAuthHandler(s.svcs.authService, int(s.Config.JWT.Expiry.Seconds())),
		PasswordResetHandler: handlers.NewPasswordResetHandler(s.svcs.authService),
		TaskHandler:          handlers.NewTaskHandler(s.svcs.taskService),
		HealthHandler:        handlers.NewHealthHandler(s.Db),
	}
}

// SetupMaintenanceTasks starts background jobs that run on a fixed
// interval, such as purging stale password reset tokens.
func (s *Server) SetupMaintenanceTasks() {
	// Set up a ticker for maintenance tasks
	ticker := time.NewTicker(constants.DBMaintenanceInterval)
	go func() {
		for range ticker.C {
			// Create a context with a timeout
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

			// Cleanup stale password reset tokens
			if count, err := s.svcs.authService.CleanupExpiredResetTokens(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to cleanup expired password reset tokens")
			} else if count > 0 {
				log.Info().Int64("count", count).Msg("Cleaned up expired password reset tokens")
			}

			// Call cancel at the end of each iteration to avoid resource leak
			cancel()
		}
	}()
}

// Start starts the HTTP server and blocks until a server error occurs
// or a shutdown signal (SIGINT, SIGTERM) is received, in which case it
// shuts down gracefully.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// requests to complete before closing the database connection.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}
