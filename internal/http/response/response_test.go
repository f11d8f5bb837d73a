package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/partnerhub-backend/internal/platform/apierr"
)

func run(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	fn(c)
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestRespondAPIErrorClientError(t *testing.T) {
	rec, body := run(t, func(c *gin.Context) {
		RespondAPIError(c, apierr.BadRequest("invalid_payload", "Invalid payload", errors.New("decode: eof")), "")
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d", rec.Code)
	}
	if body["error"] != "Invalid payload" {
		t.Fatalf("error: %v", body)
	}
	if _, ok := body["details"]; ok {
		t.Fatalf("4xx must not carry details: %v", body)
	}
}

func TestRespondAPIErrorUnknown(t *testing.T) {
	rec, body := run(t, func(c *gin.Context) {
		RespondAPIError(c, errors.New("connection refused"), "Failed to process lead")
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got=%d", rec.Code)
	}
	if body["error"] != "Failed to process lead" || body["details"] != "connection refused" {
		t.Fatalf("body: %v", body)
	}
}
