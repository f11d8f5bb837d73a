package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/partnerhub-backend/internal/data/repos"
	types "github.com/yungbote/partnerhub-backend/internal/domain"
	"github.com/yungbote/partnerhub-backend/internal/platform/dbctx"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
	"github.com/yungbote/partnerhub-backend/internal/platform/openai"
)

type fakeAI struct {
	embedErr    error
	completeErr error
	completion  openai.Completion
	embedCalls  int
	lastReq     openai.CompletionRequest
}

func (f *fakeAI) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return [][]float32{{0.1, 0.2, 0.3}}, nil
}

func (f *fakeAI) Complete(ctx context.Context, req openai.CompletionRequest) (openai.Completion, error) {
	f.lastReq = req
	if f.completeErr != nil {
		return openai.Completion{}, f.completeErr
	}
	return f.completion, nil
}

type fakeDocs struct {
	matches []types.DocumentMatch
	err     error
	lastQ   repos.MatchQuery
}

func (f *fakeDocs) Match(dbc dbctx.Context, q repos.MatchQuery) ([]types.DocumentMatch, error) {
	f.lastQ = q
	return f.matches, f.err
}

func newUsecases(ai *fakeAI, docs *fakeDocs) Usecases {
	return New(UsecasesDeps{Log: logger.Nop(), AI: ai, Docs: docs})
}

func TestAnswerWithoutMatches(t *testing.T) {
	ai := &fakeAI{completion: openai.Completion{Text: "I could not find that.", Choices: 1}}
	docs := &fakeDocs{}

	out, err := newUsecases(ai, docs).Answer(context.Background(), AnswerInput{Message: "What is the payout?"})
	require.NoError(t, err)
	assert.False(t, out.HasContext)
	assert.Equal(t, 0, out.MatchCount)
	assert.Equal(t, "I could not find that.", out.Response)
	assert.NotContains(t, ai.lastReq.User, "Document ")

	assert.InDelta(t, 0.7, docs.lastQ.Threshold, 1e-9)
	assert.Equal(t, 5, docs.lastQ.Count)
	assert.Equal(t, 500, ai.lastReq.MaxTokens)
	require.NotNil(t, ai.lastReq.Temperature)
	assert.InDelta(t, 0.3, *ai.lastReq.Temperature, 1e-9)
	assert.NotEmpty(t, ai.lastReq.System)
}

func TestAnswerWithMatches(t *testing.T) {
	ai := &fakeAI{completion: openai.Completion{Text: "10%.", Choices: 1}}
	docs := &fakeDocs{matches: []types.DocumentMatch{
		{ID: "a1", Content: "Commission is 10%.", Similarity: 0.9},
		{ID: "b2", Content: "Paid monthly.", Similarity: 0.75},
	}}

	out, err := newUsecases(ai, docs).Answer(context.Background(), AnswerInput{Message: "commission?"})
	require.NoError(t, err)
	assert.True(t, out.HasContext)
	assert.Equal(t, 2, out.MatchCount)
	assert.Equal(t, out.MatchCount, strings.Count(ai.lastReq.User, "Document "))
	assert.Contains(t, ai.lastReq.User, "Document a1:\nCommission is 10%.")
	assert.Less(t, strings.Index(ai.lastReq.User, "Document a1"), strings.Index(ai.lastReq.User, "Document b2"))
	assert.Equal(t, ai.lastReq.User, out.Prompt)
}

func TestAnswerEmptyChoicesUsesSentinel(t *testing.T) {
	out, err := newUsecases(&fakeAI{}, &fakeDocs{}).Answer(context.Background(), AnswerInput{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "No response generated", out.Response)
}

func TestAnswerBlankChoiceUsesSentinel(t *testing.T) {
	ai := &fakeAI{completion: openai.Completion{Text: "  \n", Choices: 1}}
	out, err := newUsecases(ai, &fakeDocs{}).Answer(context.Background(), AnswerInput{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "No response generated", out.Response)
}

func TestAnswerRejectsBlankMessageBeforeEmbedding(t *testing.T) {
	ai := &fakeAI{}
	_, err := newUsecases(ai, &fakeDocs{}).Answer(context.Background(), AnswerInput{Message: "   "})
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, ai.embedCalls)
}

func TestAnswerTagsFailingStage(t *testing.T) {
	cases := []struct {
		name string
		ai   *fakeAI
		docs *fakeDocs
		want Stage
	}{
		{name: "embedding", ai: &fakeAI{embedErr: errors.New("quota")}, docs: &fakeDocs{}, want: StageEmbedding},
		{name: "search", ai: &fakeAI{}, docs: &fakeDocs{err: errors.New("function match_documents does not exist")}, want: StageSearch},
		{name: "completion", ai: &fakeAI{completeErr: errors.New("overloaded")}, docs: &fakeDocs{}, want: StageCompletion},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newUsecases(tc.ai, tc.docs).Answer(context.Background(), AnswerInput{Message: "q"})
			var se *StageError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.want, se.Stage)
		})
	}
}
