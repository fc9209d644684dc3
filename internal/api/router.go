package api

import (
	"net/http"

	"github.com/dom/movie-night/internal/api/handlers"
	"github.com/dom/movie-night/internal/api/middleware"
	"github.com/dom/movie-night/internal/config"
	"github.com/dom/movie-night/internal/service"
	"github.com/dom/movie-night/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config, logger *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.RateLimitEnabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware)
	}

	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(services.Auth, services.User, services.Rating, logger)
	ratingHandler := handlers.NewRatingHandler(services.Rating, logger)
	matchHandler := handlers.NewMatchHandler(services.Match, logger)
	commentHandler := handlers.NewCommentHandler(services.Comment, logger)
	wsHandler := handlers.NewWebSocketHandler(hub, logger)

	requireUser := middleware.Auth(services.Auth, logger)

	r.Post("/sessions", userHandler.Login)
	r.With(requireUser).Get("/secrets", userHandler.Secrets)

	// Route mounts over every method on /users, so registration lives inside it.
	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.With(requireUser).Get("/me", userHandler.Me)

		r.Route("/{userId}", func(r chi.Router) {
			r.With(requireUser).Get("/", userHandler.GetByID)
			r.Put("/", ratingHandler.Rate)
			r.Get("/movies", ratingHandler.List)
			r.Get("/allUsers", userHandler.Search)
			r.Get("/otherUser", userHandler.OtherUser)
		})
	})

	r.Get("/movies/{userId}", matchHandler.Find)

	r.Route("/comments/{movieId}", func(r chi.Router) {
		r.Get("/", commentHandler.List)
		r.Put("/", commentHandler.Add)
		r.Delete("/", commentHandler.Delete)
		r.Get("/ws", wsHandler.CommentFeed)
	})

	return r
}
