package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"devconnect/internal/handler"
	"devconnect/internal/httputil"
	authmw "devconnect/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	PostHandler    *handler.PostHandler
	JWTSecret      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/refresh", cfg.AuthHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(authmw.AuthMiddleware(cfg.JWTSecret))
				r.Get("/current", cfg.AuthHandler.Current)
				r.Post("/avatar", cfg.AuthHandler.UploadAvatar)
			})
		})

		r.Route("/profile", func(r chi.Router) {
			// Public lookups
			r.Get("/all", cfg.ProfileHandler.GetAll)
			r.Get("/handle/{handle}", cfg.ProfileHandler.GetByHandle)
			r.Get("/user/{user_id}", cfg.ProfileHandler.GetByUser)

			r.Group(func(r chi.Router) {
				r.Use(authmw.AuthMiddleware(cfg.JWTSecret))
				r.Get("/", cfg.ProfileHandler.GetCurrent)
				r.Post("/", cfg.ProfileHandler.Upsert)
				r.Delete("/", cfg.ProfileHandler.DeleteAccount)
				r.Post("/experience", cfg.ProfileHandler.AddExperience)
				r.Post("/education", cfg.ProfileHandler.AddEducation)
				r.Delete("/experience/{exp_id}", cfg.ProfileHandler.RemoveExperience)
				r.Delete("/education/{edu_id}", cfg.ProfileHandler.RemoveEducation)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", cfg.PostHandler.List)
			r.Get("/{id}", cfg.PostHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(authmw.AuthMiddleware(cfg.JWTSecret))
				r.Post("/", cfg.PostHandler.Create)
				r.Delete("/{id}", cfg.PostHandler.Delete)
				r.Post("/like/{id}", cfg.PostHandler.Like)
				r.Post("/unlike/{id}", cfg.PostHandler.Unlike)
				r.Post("/comment/{id}", cfg.PostHandler.AddComment)
				r.Delete("/comment/{id}/{comment_id}", cfg.PostHandler.RemoveComment)
			})
		})
	})

	return r
}
