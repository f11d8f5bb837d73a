// Package llmcompat talks to OpenAI-compatible hosts (Ollama, vLLM, LocalAI) through langchaingo
// and exposes them as an openai.Client.
package llmcompat

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
	"github.com/yungbote/partnerhub-backend/internal/platform/openai"
)

type Config struct {
	// BaseURL must include the /v1 suffix, e.g. http://localhost:11434/v1.
	BaseURL    string
	APIKey     string
	ChatModel  string
	EmbedModel string
}

// generator is the subset of *lcopenai.LLM used here.
type generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
	CreateEmbedding(ctx context.Context, inputTexts []string) ([][]float32, error)
}

type client struct {
	log *logger.Logger
	llm generator
}

func NewClient(log *logger.Logger, cfg Config) (openai.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing AI_BASE_URL for compat provider")
	}
	if strings.TrimSpace(cfg.ChatModel) == "" || strings.TrimSpace(cfg.EmbedModel) == "" {
		return nil, fmt.Errorf("compat provider requires AI_CHAT_MODEL and AI_EMBED_MODEL")
	}
	token := strings.TrimSpace(cfg.APIKey)
	if token == "" {
		// Local hosts ignore the token but the client insists on one.
		token = "none"
	}
	llm, err := lcopenai.New(
		lcopenai.WithBaseURL(baseURL),
		lcopenai.WithToken(token),
		lcopenai.WithModel(cfg.ChatModel),
		lcopenai.WithEmbeddingModel(cfg.EmbedModel),
	)
	if err != nil {
		return nil, fmt.Errorf("init langchaingo openai: %w", err)
	}
	return newWithGenerator(log, llm), nil
}

func newWithGenerator(log *logger.Logger, g generator) *client {
	return &client{log: log.With("service", "CompatLLMClient"), llm: g}
}

func (c *client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	vecs, err := c.llm.CreateEmbedding(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("compat embeddings: %w", err)
	}
	if len(vecs) != len(inputs) {
		return nil, fmt.Errorf("compat embeddings: requested=%d returned=%d", len(inputs), len(vecs))
	}
	return vecs, nil
}

func (c *client) Complete(ctx context.Context, req openai.CompletionRequest) (openai.Completion, error) {
	msgs := make([]llms.MessageContent, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, req.User))

	var opts []llms.CallOption
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*req.Temperature))
	}

	resp, err := c.llm.GenerateContent(ctx, msgs, opts...)
	if err != nil {
		return openai.Completion{}, fmt.Errorf("compat completion: %w", err)
	}
	out := openai.Completion{}
	if resp == nil {
		return out, nil
	}
	out.Choices = len(resp.Choices)
	if len(resp.Choices) > 0 && resp.Choices[0] != nil {
		out.Text = resp.Choices[0].Content
	}
	return out, nil
}
