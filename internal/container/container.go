package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	database "github.com/FACorreiaa/go-chat-recommendations/app/db"
	appMiddleware "github.com/FACorreiaa/go-chat-recommendations/app/middleware"
	"github.com/FACorreiaa/go-chat-recommendations/app/observability/metrics"
	"github.com/FACorreiaa/go-chat-recommendations/config"
	"github.com/FACorreiaa/go-chat-recommendations/internal/api/chatstore"
	generativeAI "github.com/FACorreiaa/go-chat-recommendations/internal/api/generative_ai"
	"github.com/FACorreiaa/go-chat-recommendations/internal/api/movies"
	"github.com/FACorreiaa/go-chat-recommendations/internal/api/places"
	"github.com/FACorreiaa/go-chat-recommendations/internal/api/recommendation"
	"github.com/FACorreiaa/go-chat-recommendations/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config                *config.Config
	Logger                *slog.Logger
	Pool                  *pgxpool.Pool
	Redis                 *redis.Client
	RecommendationHandler *recommendation.HandlerImpl
	ChatHandler           *chatstore.HandlerImpl
	PlacesHandler         *places.HandlerImpl
	MoviesHandler         *movies.HandlerImpl
}

// NewContainer builds the upstream clients, the chat store backend named in
// cfg.ChatStore.Backend, and every service and handler on top of them.
func NewContainer(ctx context.Context, cfg *config.Config, m *metrics.AppMetrics, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	aiClient, err := generativeAI.NewAIClient(ctx, generativeAI.Config{
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	placesClient, err := places.NewClient(places.Config{
		APIKey:            cfg.Places.APIKey,
		BaseURL:           cfg.Places.BaseURL,
		Timeout:           cfg.Places.Timeout,
		RequestsPerSecond: cfg.Places.RequestsPerSecond,
		Burst:             cfg.Places.Burst,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create places client: %w", err)
	}

	repo, err := c.chatRepository(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	chatService := chatstore.NewServiceImpl(repo, cfg.ChatStore.DefaultLimit, logger)

	recommendationService := recommendation.NewServiceImpl(
		aiClient,
		placesClient,
		chatService,
		recommendation.NewRandomPicker(uint64(time.Now().UnixNano())),
		m,
		logger,
	)
	movieService := movies.NewServiceImpl(aiClient, m, logger)

	c.RecommendationHandler = recommendation.NewHandlerImpl(recommendationService, logger)
	c.ChatHandler = chatstore.NewHandlerImpl(chatService, logger)
	c.PlacesHandler = places.NewHandlerImpl(placesClient, logger)
	c.MoviesHandler = movies.NewHandlerImpl(movieService, logger)
	return c, nil
}

func (c *Container) chatRepository(ctx context.Context) (chatstore.Repository, error) {
	cfg := c.Config
	switch cfg.ChatStore.Backend {
	case "", "memory":
		c.Logger.Info("Using in-memory chat store")
		return chatstore.NewMemoryRepository(cfg.ChatStore.CacheTTL), nil

	case "redis":
		client, err := database.NewRedisClient(ctx, cfg, c.Logger)
		if err != nil {
			return nil, err
		}
		c.Redis = client
		return chatstore.NewRedisRepository(client, cfg.ChatStore.CacheTTL, c.Logger), nil

	case "postgres":
		dbConfig, err := database.NewDatabaseConfig(cfg, c.Logger)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
			return nil, err
		}
		pool, err := database.Init(ctx, dbConfig.ConnectionURL, c.Logger)
		if err != nil {
			return nil, err
		}
		c.Pool = pool
		if !database.WaitForDB(ctx, pool, c.Logger) {
			return nil, fmt.Errorf("database at %s is not reachable", cfg.Repositories.Postgres.Host)
		}
		return chatstore.NewPostgresRepository(pool, c.Logger), nil

	default:
		return nil, fmt.Errorf("%w: %q", chatstore.ErrUnknownBackend, cfg.ChatStore.Backend)
	}
}

// RouterConfig exposes the handlers and the HTTP policy from configuration.
func (c *Container) RouterConfig() *router.Config {
	rc := &router.Config{
		RecommendationHandler: c.RecommendationHandler,
		ChatHandler:           c.ChatHandler,
		PlacesHandler:         c.PlacesHandler,
		MoviesHandler:         c.MoviesHandler,
		RateLimitRequests:     c.Config.RateLimit.Requests,
		RateLimitWindow:       c.Config.RateLimit.Window,
		AllowedOrigins:        c.Config.Server.AllowedOrigins,
	}
	if secret := c.Config.Auth.JWTSecret; secret != "" {
		rc.AuthenticateMiddleware = appMiddleware.Authenticate([]byte(secret), c.Logger)
	}
	return rc
}

// Handler builds the API router.
func (c *Container) Handler() http.Handler {
	return router.SetupRouter(c.RouterConfig())
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Failed to close redis client", slog.Any("error", err))
		}
	}
}
