package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/partnerhub-backend/internal/data/repos"
	"github.com/yungbote/partnerhub-backend/internal/platform/dbctx"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
	"github.com/yungbote/partnerhub-backend/internal/platform/openai"
)

var tracer = otel.Tracer("github.com/yungbote/partnerhub-backend/internal/modules/chat")

var ErrEmptyMessage = errors.New("message is required")

type Stage string

const (
	StageEmbedding  Stage = "embedding"
	StageSearch     Stage = "search"
	StageCompletion Stage = "completion"
)

// StageError tags an upstream failure with the pipeline stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

type AnswerDeps struct {
	Log  *logger.Logger
	AI   openai.Client
	Docs repos.DocumentRepo
}

type AnswerInput struct {
	Message string
}

type AnswerOutput struct {
	Response   string
	HasContext bool
	MatchCount int
	// Prompt is the user turn sent to the model.
	Prompt string
}

func Answer(ctx context.Context, deps AnswerDeps, in AnswerInput) (AnswerOutput, error) {
	if deps.Log == nil || deps.AI == nil || deps.Docs == nil {
		return AnswerOutput{}, fmt.Errorf("chat answer: missing deps")
	}
	question := strings.TrimSpace(in.Message)
	if question == "" {
		return AnswerOutput{}, ErrEmptyMessage
	}

	ctx, span := tracer.Start(ctx, "chat.answer")
	defer span.End()
	fail := func(stage Stage, err error) (AnswerOutput, error) {
		se := &StageError{Stage: stage, Err: err}
		span.RecordError(se)
		span.SetStatus(codes.Error, se.Error())
		deps.Log.Error("Chat stage failed", "stage", string(stage), "error", err)
		return AnswerOutput{}, se
	}

	vecs, err := deps.AI.Embed(ctx, []string{question})
	if err != nil {
		return fail(StageEmbedding, err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return fail(StageEmbedding, fmt.Errorf("empty embedding returned"))
	}

	matches, err := deps.Docs.Match(dbctx.Context{Ctx: ctx}, repos.MatchQuery{
		Embedding: vecs[0],
		Threshold: MatchThreshold,
		Count:     MatchCount,
	})
	if err != nil {
		return fail(StageSearch, err)
	}
	span.SetAttributes(attribute.Int("chat.match_count", len(matches)))

	prompt := BuildUserPrompt(BuildContext(matches), question)
	temp := Temperature
	completion, err := deps.AI.Complete(ctx, openai.CompletionRequest{
		System:      SystemInstruction,
		User:        prompt,
		MaxTokens:   MaxTokens,
		Temperature: &temp,
	})
	if err != nil {
		return fail(StageCompletion, err)
	}

	text := completion.Text
	if completion.Choices == 0 || strings.TrimSpace(text) == "" {
		text = NoResponse
	}
	deps.Log.Debug("Chat answered", "match_count", len(matches), "model", completion.Model)
	return AnswerOutput{
		Response:   text,
		HasContext: len(matches) > 0,
		MatchCount: len(matches),
		Prompt:     prompt,
	}, nil
}
