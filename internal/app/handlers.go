package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/partnerhub-backend/internal/http"
	httpH "github.com/yungbote/partnerhub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/partnerhub-backend/internal/http/middleware"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

type Middleware struct {
	Auth             *httpMW.AuthMiddleware
	WebhookSignature gin.HandlerFunc
}

type Handlers struct {
	Health      *httpH.HealthHandler
	LeadWebhook *httpH.LeadWebhookHandler
	Chat        *httpH.ChatHandler
}

func wireHandlers(log *logger.Logger, modules Modules, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{}
	if clients.Postgres != nil {
		checks["postgres"] = func(ctx context.Context) error {
			sqlDB, err := clients.Postgres.DB().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	return Handlers{
		Health:      httpH.NewHealthHandlerWithChecks(checks),
		LeadWebhook: httpH.NewLeadWebhookHandlerWithDeps(httpH.LeadWebhookHandlerDeps{Log: log, Leads: modules.Leads}),
		Chat:        httpH.NewChatHandlerWithDeps(httpH.ChatHandlerDeps{Log: log, Chat: modules.Chat}),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) (Middleware, error) {
	log.Info("Wiring middleware...")
	var mw Middleware
	if strings.TrimSpace(cfg.Auth.SupabaseJWTSecret) != "" {
		am, err := httpMW.NewAuthMiddleware(log, httpMW.AuthConfig{
			JWTSecret: cfg.Auth.SupabaseJWTSecret,
			Audience:  cfg.Auth.Audience,
		})
		if err != nil {
			return Middleware{}, fmt.Errorf("init auth middleware: %w", err)
		}
		mw.Auth = am
	} else {
		log.Warn("SUPABASE_JWT_SECRET not set; /api/chat is unauthenticated")
	}
	if secret := strings.TrimSpace(cfg.HubSpot.ClientSecret); secret != "" {
		mw.WebhookSignature = httpMW.HubSpotSignature(log, secret, cfg.HTTP.PublicBaseURL, nil)
	} else {
		log.Warn("HUBSPOT_CLIENT_SECRET not set; webhook signatures are not verified")
	}
	return mw, nil
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, mw Middleware) *gin.Engine {
	serviceName := ""
	if cfg.OTel.Enabled {
		serviceName = cfg.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:                log,
		ServiceName:        serviceName,
		CORSOrigins:        cfg.HTTP.CORSOrigins,
		MaxBodySize:        cfg.HTTP.MaxBodyBytes,
		AuthMiddleware:     mw.Auth,
		WebhookSignature:   mw.WebhookSignature,
		LeadWebhookHandler: handlers.LeadWebhook,
		ChatHandler:        handlers.Chat,
		HealthHandler:      handlers.Health,
	})
}
