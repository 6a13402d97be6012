package api

import (
	"net/http"

	"github.com/dom/counter-app/internal/api/handlers"
	"github.com/dom/counter-app/internal/api/middleware"
	"github.com/dom/counter-app/internal/api/response"
	"github.com/dom/counter-app/internal/config"
	"github.com/dom/counter-app/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	if cfg.Environment != "test" {
		r.Use(chiMiddleware.Logger)
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Counter API"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	userHandler := handlers.NewUserHandler(services.Profile, services.Presence)
	counterHandler := handlers.NewCounterHandler(services.Counter)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/profile", userHandler.GetProfile)
				r.Put("/profile", userHandler.UpdateProfile)
				r.Get("/active", userHandler.ListActive)
				r.Put("/activity", userHandler.Heartbeat)
				r.Put("/inactive", userHandler.MarkInactive)
			})
		})

		r.Route("/counters", func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Post("/", counterHandler.Create)
			r.Get("/", counterHandler.List)
			r.Get("/default", counterHandler.GetDefault)
			r.Get("/{id}", counterHandler.Get)
			r.Put("/{id}/value", counterHandler.UpdateValue)
			r.Put("/{id}/reset", counterHandler.Reset)
			r.Post("/{id}/buttons", counterHandler.AddButton)
			r.Delete("/{id}/buttons/{buttonId}", counterHandler.RemoveButton)
			r.Get("/{id}/personality", counterHandler.Personality)
		})
	})

	return r
}
