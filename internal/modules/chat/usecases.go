package chat

import (
	"context"

	"github.com/yungbote/partnerhub-backend/internal/data/repos"
	"github.com/yungbote/partnerhub-backend/internal/modules/chat/steps"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
	"github.com/yungbote/partnerhub-backend/internal/platform/openai"
)

type UsecasesDeps struct {
	Log  *logger.Logger
	AI   openai.Client
	Docs repos.DocumentRepo
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	AnswerInput  = steps.AnswerInput
	AnswerOutput = steps.AnswerOutput
	StageError   = steps.StageError
	Stage        = steps.Stage
)

const (
	StageEmbedding  = steps.StageEmbedding
	StageSearch     = steps.StageSearch
	StageCompletion = steps.StageCompletion
)

var ErrEmptyMessage = steps.ErrEmptyMessage

func (u Usecases) Answer(ctx context.Context, in AnswerInput) (AnswerOutput, error) {
	return steps.Answer(ctx, steps.AnswerDeps{
		Log:  u.deps.Log,
		AI:   u.deps.AI,
		Docs: u.deps.Docs,
	}, in)
}
