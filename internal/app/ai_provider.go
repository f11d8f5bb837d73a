package app

import (
	"fmt"

	"github.com/yungbote/partnerhub-backend/internal/platform/llmcompat"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
	"github.com/yungbote/partnerhub-backend/internal/platform/openai"
)

const (
	AIProviderOpenAI = "openai"
	// AIProviderCompat targets any OpenAI-compatible host (Ollama, vLLM, LocalAI).
	AIProviderCompat = "compat"
)

func newAIClient(log *logger.Logger, cfg AIConfig) (openai.Client, error) {
	switch cfg.Provider {
	case AIProviderOpenAI, "":
		return openai.NewClient(log, openai.Config{
			BaseURL:    cfg.BaseURL,
			APIKey:     cfg.APIKey,
			ChatModel:  cfg.ChatModel,
			EmbedModel: cfg.EmbedModel,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		})
	case AIProviderCompat:
		return llmcompat.NewClient(log, llmcompat.Config{
			BaseURL:    cfg.BaseURL,
			APIKey:     cfg.APIKey,
			ChatModel:  cfg.ChatModel,
			EmbedModel: cfg.EmbedModel,
		})
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
