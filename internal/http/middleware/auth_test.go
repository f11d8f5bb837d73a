package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/partnerhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

func signToken(t *testing.T, secret string, claims SupabaseClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func authRouter(t *testing.T) (*gin.Engine, *string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	am, err := NewAuthMiddleware(logger.Nop(), AuthConfig{JWTSecret: "super-secret"})
	if err != nil {
		t.Fatalf("NewAuthMiddleware: %v", err)
	}
	var seen string
	r := gin.New()
	r.POST("/api/chat", am.RequireAuth(), func(c *gin.Context) {
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
			seen = rd.UserID
		}
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestRequireAuth(t *testing.T) {
	r, seen := authRouter(t)
	valid := SupabaseClaims{
		Email: "a@b.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongAud := valid
	wrongAud.Audience = jwt.ClaimStrings{"anon"}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer " + signToken(t, "super-secret", valid), want: http.StatusOK},
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signToken(t, "other", valid), want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, "super-secret", expired), want: http.StatusUnauthorized},
		{name: "wrong audience", header: "Bearer " + signToken(t, "super-secret", wrongAud), want: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			*seen = ""
			req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.want, rec.Body.String())
			}
			if tc.want == http.StatusOK && *seen != "user-1" {
				t.Fatalf("request data not attached: %q", *seen)
			}
		})
	}
}

func TestNewAuthMiddlewareRequiresSecret(t *testing.T) {
	if _, err := NewAuthMiddleware(logger.Nop(), AuthConfig{}); err == nil {
		t.Fatal("expected missing secret error")
	}
}
