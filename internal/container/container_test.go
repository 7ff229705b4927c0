package container

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-chat-recommendations/config"
	"github.com/FACorreiaa/go-chat-recommendations/internal/api/chatstore"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

func testConfig(backend string) *config.Config {
	cfg := &config.Config{}
	cfg.AI.APIKey = "test-gemini-key"
	cfg.Places.APIKey = "test-places-key"
	cfg.Places.BaseURL = "http://places.invalid"
	cfg.ChatStore.Backend = backend
	cfg.ChatStore.CacheTTL = time.Hour
	return cfg
}

func TestNewContainer_MemoryBackend(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig("memory"), nil, testLogger)
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.RecommendationHandler)
	assert.NotNil(t, c.ChatHandler)
	assert.NotNil(t, c.PlacesHandler)
	assert.NotNil(t, c.MoviesHandler)
	assert.Nil(t, c.Pool)
	assert.Nil(t, c.Redis)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestNewContainer_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig("redis")
	cfg.Repositories.Redis.Addr = mr.Addr()

	c, err := NewContainer(context.Background(), cfg, nil, testLogger)
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Redis)
}

func TestNewContainer_Errors(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewContainer(context.Background(), testConfig("cassandra"), nil, testLogger)
		assert.ErrorIs(t, err, chatstore.ErrUnknownBackend)
	})

	t.Run("missing gemini key", func(t *testing.T) {
		cfg := testConfig("memory")
		cfg.AI.APIKey = ""
		_, err := NewContainer(context.Background(), cfg, nil, testLogger)
		assert.Error(t, err)
	})
}

func TestContainer_RouterConfig(t *testing.T) {
	cfg := testConfig("memory")
	c, err := NewContainer(context.Background(), cfg, nil, testLogger)
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.RouterConfig().AuthenticateMiddleware)

	cfg.Auth.JWTSecret = "s3cret"
	assert.NotNil(t, c.RouterConfig().AuthenticateMiddleware)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/places/search?query=x", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
