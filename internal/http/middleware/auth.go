package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/partnerhub-backend/internal/http/response"
	"github.com/yungbote/partnerhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

// SupabaseClaims is the subset of a Supabase access token this service reads.
type SupabaseClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AuthConfig struct {
	// JWTSecret is the project's HS256 signing secret.
	JWTSecret string
	// Audience defaults to "authenticated".
	Audience string
	Leeway   time.Duration
}

type AuthMiddleware struct {
	log    *logger.Logger
	secret []byte
	parser *jwt.Parser
}

func NewAuthMiddleware(log *logger.Logger, cfg AuthConfig) (*AuthMiddleware, error) {
	secret := strings.TrimSpace(cfg.JWTSecret)
	if secret == "" {
		return nil, fmt.Errorf("missing SUPABASE_JWT_SECRET")
	}
	aud := strings.TrimSpace(cfg.Audience)
	if aud == "" {
		aud = "authenticated"
	}
	return &AuthMiddleware{
		log:    log.With("middleware", "AuthMiddleware"),
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithAudience(aud),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(cfg.Leeway),
		),
	}, nil
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.RespondClientError(c, http.StatusUnauthorized, "Missing or invalid token")
			return
		}
		claims, err := am.verify(tokenString)
		if err != nil {
			am.log.Warn("Rejected access token", "error", err)
			response.RespondClientError(c, http.StatusUnauthorized, "Missing or invalid token")
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
			UserID: claims.Subject,
			Role:   claims.Role,
			Email:  claims.Email,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) verify(tokenString string) (*SupabaseClaims, error) {
	claims := &SupabaseClaims{}
	tok, err := am.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return am.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if tok == nil || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("missing sub")
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
