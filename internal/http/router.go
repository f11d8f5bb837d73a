package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/partnerhub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/partnerhub-backend/internal/http/middleware"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	MaxBodySize int64

	// Optional gates. Nil leaves the route open.
	AuthMiddleware   *httpMW.AuthMiddleware
	WebhookSignature gin.HandlerFunc

	LeadWebhookHandler *httpH.LeadWebhookHandler
	ChatHandler        *httpH.ChatHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Recovery(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.BodyLimit(cfg.MaxBodySize))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	{
		// CRM webhook
		if cfg.LeadWebhookHandler != nil {
			chain := []gin.HandlerFunc{}
			if cfg.WebhookSignature != nil {
				chain = append(chain, cfg.WebhookSignature)
			}
			chain = append(chain, cfg.LeadWebhookHandler.Ingest)
			api.POST("/get-leads", chain...)
		}

		// Chat
		if cfg.ChatHandler != nil {
			chain := []gin.HandlerFunc{}
			if cfg.AuthMiddleware != nil {
				chain = append(chain, cfg.AuthMiddleware.RequireAuth())
			}
			chain = append(chain, cfg.ChatHandler.Chat)
			api.POST("/chat", chain...)
		}
	}

	return r
}
