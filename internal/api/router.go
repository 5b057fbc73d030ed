package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/srushti1125/techdigest/internal/api/handlers"
	"github.com/srushti1125/techdigest/internal/auth"
	"github.com/srushti1125/techdigest/internal/services"
	"github.com/srushti1125/techdigest/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, userService services.UserServiceProvider, articleService services.ArticleServiceProvider, eventService services.EventServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	articleHandler := handlers.NewArticleHandler(articleService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.Post("/logout", userHandler.Logout)
		})

		// Everything below needs an authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Get("/me", userHandler.Me)
			r.Put("/me/keywords", userHandler.UpdateKeywords)

			r.Get("/articles", articleHandler.GetRecent)
			r.Get("/events", eventHandler.GetRecent)
			r.Get("/ws", wsHandler.Serve)
		})
	})

	return r
}
