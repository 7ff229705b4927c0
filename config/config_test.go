package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_EmbeddedDefaults(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.HTTPPort)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, "memory", cfg.ChatStore.Backend)
	assert.Equal(t, 50, cfg.ChatStore.DefaultLimit)
	assert.Positive(t, cfg.Places.RequestsPerSecond)
}

func TestInitConfig_SecretsFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_GEMINI_API_KEY", "gemini-key")
	t.Setenv("GOOGLE_PLACES_API_KEY", "places-key")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini-key", cfg.AI.APIKey)
	assert.Equal(t, "places-key", cfg.Places.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("both keys missing", func(t *testing.T) {
		var cfg Config
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingCredential)
		assert.Contains(t, err.Error(), "ai.apiKey")
		assert.Contains(t, err.Error(), "places.apiKey")
	})

	t.Run("places key missing", func(t *testing.T) {
		var cfg Config
		cfg.AI.APIKey = "set"
		err := cfg.Validate()
		require.ErrorIs(t, err, ErrMissingCredential)
		assert.NotContains(t, err.Error(), "ai.apiKey")
	})
}
