package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskvault/taskvault-backend/internal/constants"
	"github.com/taskvault/taskvault-backend/internal/middleware"
	"github.com/taskvault/taskvault-backend/internal/utils"
)

// SetupRoutes configures the routes for the application.
// Authentication endpoints are public; task and tag endpoints require a
// valid bearer token.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	// Base middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging())

	// Health check (unprotected)
	r.Get(constants.HealthPath, s.Handlers.HealthHandler.Health)
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		utils.JSON(w, http.StatusOK, map[string]string{
			"version":     s.Config.App.Version,
			"environment": s.Config.App.Environment,
		})
	})

	// API routes
	r.Route(constants.APIBasePath, func(r chi.Router) {
		// Authentication routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.Handlers.AuthHandler.Register)
			r.Post("/login", s.Handlers.AuthHandler.Login)
			r.Post("/forgot-password", s.Handlers.PasswordResetHandler.ForgotPassword)
			r.Get("/reset-password/verify", s.Handlers.PasswordResetHandler.VerifyToken)
			r.Post("/reset-password", s.Handlers.PasswordResetHandler.ResetPassword)
		})

		// Task routes (protected)
		r.Route("/tasks", func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.jwtService))

			r.Get("/", s.Handlers.TaskHandler.ListTasks)
			r.Post("/", s.Handlers.TaskHandler.CreateTask)

			r.Route("/{"+constants.ParamTaskID+"}", func(r chi.Router) {
				r.Get("/", s.Handlers.TaskHandler.GetTask)
				r.Patch("/", s.Handlers.TaskHandler.UpdateTask)
				r.Put("/", s.Handlers.TaskHandler.UpdateTask)
				r.Delete("/", s.Handlers.TaskHandler.DeleteTask)
			})
		})

		// Tag routes (protected)
		r.Route("/tags", func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.jwtService))

			r.Get("/", s.Handlers.TaskHandler.ListTags)
		})
	})

	s.router = r
}
