package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/partnerhub-backend/internal/data/repos"
	"github.com/yungbote/partnerhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/partnerhub-backend/internal/http/middleware"
	"github.com/yungbote/partnerhub-backend/internal/modules/chat"
	"github.com/yungbote/partnerhub-backend/internal/modules/leads"
	"github.com/yungbote/partnerhub-backend/internal/platform/dbctx"
	"github.com/yungbote/partnerhub-backend/internal/platform/hubspot"
	"github.com/yungbote/partnerhub-backend/internal/realtime/bus"
)

type stubCRM struct {
	obj *hubspot.Object
	err error
}

func (s stubCRM) GetObject(ctx context.Context, objectType, objectID string, properties []string) (*hubspot.Object, error) {
	return s.obj, s.err
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, out
}

func leadRouter(t *testing.T, crm hubspot.Client) (*gin.Engine, repos.LeadRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testutil.Logger(t)
	leadRepo := repos.NewLeadRepo(testutil.SQLite(t), log)
	uc := leads.New(leads.UsecasesDeps{Log: log, CRM: crm, Leads: leadRepo, Events: bus.Noop()})
	h := NewLeadWebhookHandlerWithDeps(LeadWebhookHandlerDeps{Log: log, Leads: uc})

	r := gin.New()
	r.Use(middleware.BodyLimit(256))
	r.POST("/api/get-leads", h.Ingest)
	return r, leadRepo
}

func TestLeadWebhookSuccess(t *testing.T) {
	raw := `{"id":"42","properties":{"email":"a@b.com","firstname":"A"},"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}`
	obj := &hubspot.Object{}
	if err := json.Unmarshal([]byte(raw), obj); err != nil {
		t.Fatalf("decode: %v", err)
	}
	obj.Raw = json.RawMessage(raw)
	r, leadRepo := leadRouter(t, stubCRM{obj: obj})

	rec, body := do(t, r, http.MethodPost, "/api/get-leads", `[{"objectTypeId":"contacts","objectId":"42","occurredAt":"2024-01-01T00:00:00Z"}]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d body=%v", rec.Code, body)
	}
	if body["contactId"] != "42" || body["message"] == "" {
		t.Fatalf("body: %v", body)
	}
	got, err := leadRepo.GetByID(dbctx.Context{Ctx: context.Background()}, "42")
	if err != nil || got == nil || got.LastName != nil {
		t.Fatalf("stored lead: %+v err=%v", got, err)
	}
}

func TestLeadWebhookBadPayload(t *testing.T) {
	r, leadRepo := leadRouter(t, stubCRM{err: errors.New("must not be called")})
	for _, payload := range []string{``, `[]`, `{"a":1}`} {
		rec, body := do(t, r, http.MethodPost, "/api/get-leads", payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: status=%d", payload, rec.Code)
		}
		if _, ok := body["error"].(string); !ok {
			t.Fatalf("payload %q: body=%v", payload, body)
		}
		if _, ok := body["details"]; ok {
			t.Fatalf("payload %q: 400 carries details: %v", payload, body)
		}
	}
	if n, _ := leadRepo.Count(dbctx.Context{Ctx: context.Background()}); n != 0 {
		t.Fatalf("rows written: %d", n)
	}
}

func TestLeadWebhookCRMFailure(t *testing.T) {
	r, leadRepo := leadRouter(t, stubCRM{err: errors.New("hubspot http 502: bad gateway")})
	rec, body := do(t, r, http.MethodPost, "/api/get-leads", `[{"objectTypeId":"contacts","objectId":"42","occurredAt":"x"}]`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got=%d", rec.Code)
	}
	if body["error"] != "Failed to process lead" || !strings.Contains(body["details"].(string), "bad gateway") {
		t.Fatalf("body: %v", body)
	}
	if n, _ := leadRepo.Count(dbctx.Context{Ctx: context.Background()}); n != 0 {
		t.Fatalf("rows written: %d", n)
	}
}

func TestLeadWebhookTooLarge(t *testing.T) {
	r, _ := leadRouter(t, stubCRM{})
	rec, _ := do(t, r, http.MethodPost, "/api/get-leads", "["+strings.Repeat(" ", 512)+"]")
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status: got=%d", rec.Code)
	}
}

type stubChat struct {
	out   chat.AnswerOutput
	err   error
	calls int
}

func (s *stubChat) Answer(ctx context.Context, in chat.AnswerInput) (chat.AnswerOutput, error) {
	s.calls++
	return s.out, s.err
}

func chatRouter(s *stubChat) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChatHandlerWithDeps(ChatHandlerDeps{Chat: s})
	r := gin.New()
	r.POST("/api/chat", h.Chat)
	return r
}

func TestChatSuccess(t *testing.T) {
	s := &stubChat{out: chat.AnswerOutput{Response: "Payouts are monthly.", HasContext: true, MatchCount: 2}}
	rec, body := do(t, chatRouter(s), http.MethodPost, "/api/chat", `{"message":"When are payouts?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d", rec.Code)
	}
	if body["response"] != "Payouts are monthly." || body["hasContext"] != true || body["matchCount"] != float64(2) {
		t.Fatalf("body: %v", body)
	}
}

func TestChatMissingMessage(t *testing.T) {
	s := &stubChat{}
	for _, payload := range []string{``, `{}`, `{"message":""}`, `{"message":"  "}`, `{"message":null}`} {
		rec, body := do(t, chatRouter(s), http.MethodPost, "/api/chat", payload)
		if rec.Code != http.StatusBadRequest || body["error"] != "Message is required" {
			t.Fatalf("payload %q: status=%d body=%v", payload, rec.Code, body)
		}
	}
	if rec, _ := do(t, chatRouter(s), http.MethodPost, "/api/chat", `{"message":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status=%d", rec.Code)
	}
	if s.calls != 0 {
		t.Fatalf("pipeline invoked %d times for invalid input", s.calls)
	}
}

func TestChatStageErrors(t *testing.T) {
	cases := map[chat.Stage]string{
		chat.StageEmbedding:  "Failed to generate embedding",
		chat.StageSearch:     "Failed to search documents",
		chat.StageCompletion: "Failed to generate response",
	}
	for stage, want := range cases {
		s := &stubChat{err: &chat.StageError{Stage: stage, Err: errors.New("upstream said no")}}
		rec, body := do(t, chatRouter(s), http.MethodPost, "/api/chat", `{"message":"q"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: status=%d", stage, rec.Code)
		}
		if body["error"] != want || body["details"] != "upstream said no" {
			t.Fatalf("%s: body=%v", stage, body)
		}
	}
}
