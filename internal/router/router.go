package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/FACorreiaa/go-chat-recommendations/internal/api/chatstore"
	"github.com/FACorreiaa/go-chat-recommendations/internal/api/movies"
	"github.com/FACorreiaa/go-chat-recommendations/internal/api/places"
	"github.com/FACorreiaa/go-chat-recommendations/internal/api/recommendation"
)

// Config contains dependencies needed for the router setup
type Config struct {
	RecommendationHandler *recommendation.HandlerImpl
	ChatHandler           *chatstore.HandlerImpl
	PlacesHandler         *places.HandlerImpl
	MoviesHandler         *movies.HandlerImpl

	// AuthenticateMiddleware guards /api/v1 when set.
	AuthenticateMiddleware func(http.Handler) http.Handler
	RateLimitRequests      int
	RateLimitWindow        time.Duration
	AllowedOrigins         []string
}

// SetupRouter wires the API routes. Server-wide middleware (request id,
// logging, recoverer) is applied by the caller before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}
		if cfg.AuthenticateMiddleware != nil {
			r.Use(cfg.AuthenticateMiddleware)
		}

		r.Post("/recommendations", cfg.RecommendationHandler.Recommend)

		r.Route("/chats/{chatID}", func(r chi.Router) {
			r.Get("/recommendations", cfg.RecommendationHandler.RecommendForChat)
			r.Post("/messages", cfg.ChatHandler.AppendMessage)
		})

		r.Get("/places/search", cfg.PlacesHandler.SearchPlaces)
		r.Post("/movies/preferences", cfg.MoviesHandler.AnalyzePreferences)
	})

	return r
}
