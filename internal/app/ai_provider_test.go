package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

func TestNewAIClientSelectsProvider(t *testing.T) {
	log := logger.Nop()

	c, err := newAIClient(log, AIConfig{Provider: AIProviderOpenAI, APIKey: "sk-test"})
	require.NoError(t, err)
	require.NotNil(t, c)

	_, err = newAIClient(log, AIConfig{Provider: AIProviderOpenAI})
	require.Error(t, err, "openai requires a key")

	c, err = newAIClient(log, AIConfig{
		Provider:   AIProviderCompat,
		BaseURL:    "http://localhost:11434/v1",
		ChatModel:  "llama3",
		EmbedModel: "nomic-embed-text",
	})
	require.NoError(t, err)
	require.NotNil(t, c)

	_, err = newAIClient(log, AIConfig{Provider: "bedrock"})
	require.ErrorContains(t, err, "unknown AI provider")
}
