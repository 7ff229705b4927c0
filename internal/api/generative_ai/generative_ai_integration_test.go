//go:build integration

package generativeAI

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if os.Getenv("GOOGLE_GEMINI_API_KEY") == "" {
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func newIntegrationClient(t *testing.T) *AIClient {
	t.Helper()
	client, err := NewAIClient(context.Background(), Config{
		APIKey:      os.Getenv("GOOGLE_GEMINI_API_KEY"),
		Temperature: 0.1,
		Timeout:     30 * time.Second,
	}, slog.Default())
	require.NoError(t, err)
	return client
}

func TestNewAIClient_Integration(t *testing.T) {
	client := newIntegrationClient(t)
	assert.NotNil(t, client.client)
	assert.Equal(t, "gemini-2.0-flash", client.model)
}

func TestAIClient_Generate_Integration(t *testing.T) {
	client := newIntegrationClient(t)

	t.Run("returns JSON", func(t *testing.T) {
		out, err := client.Generate(context.Background(),
			`Return a JSON object {"capital": string} for Portugal.`)
		require.NoError(t, err)

		var parsed map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &parsed))
		assert.Contains(t, parsed["capital"], "Lisbon")
	})
}

func TestNewAIClient_MissingKey(t *testing.T) {
	_, err := NewAIClient(context.Background(), Config{}, slog.Default())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
