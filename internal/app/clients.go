package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/partnerhub-backend/internal/data/db"
	"github.com/yungbote/partnerhub-backend/internal/platform/hubspot"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
	"github.com/yungbote/partnerhub-backend/internal/platform/openai"
	"github.com/yungbote/partnerhub-backend/internal/realtime/bus"
)

type Clients struct {
	Postgres *db.PostgresService
	HubSpot  hubspot.Client
	AI       openai.Client
	Events   bus.Publisher
}

type clientOptions struct {
	// skipAI leaves Clients.AI nil; the replay CLI never calls the model.
	skipAI bool
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, opts clientOptions) (Clients, error) {
	log.Info("Wiring clients...")

	pg, err := db.NewPostgresService(log, postgresConfig(cfg.Postgres))
	if err != nil {
		return Clients{}, fmt.Errorf("init postgres: %w", err)
	}
	out := Clients{Postgres: pg}

	out.HubSpot, err = hubspot.NewClient(log, hubspot.Config{
		BaseURL:     cfg.HubSpot.BaseURL,
		AccessToken: cfg.HubSpot.AccessToken,
		Timeout:     cfg.HubSpot.Timeout,
		MaxRetries:  cfg.HubSpot.MaxRetries,
	})
	if err != nil {
		out.Close(log)
		return Clients{}, fmt.Errorf("init hubspot client: %w", err)
	}

	if !opts.skipAI {
		out.AI, err = newAIClient(log, cfg.AI)
		if err != nil {
			out.Close(log)
			return Clients{}, fmt.Errorf("init ai client: %w", err)
		}
	}

	// Redis (optional)
	out.Events = bus.Noop()
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		b, err := bus.NewRedisBus(ctx, log, bus.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Channel:  cfg.Redis.Channel,
		})
		if err != nil {
			out.Close(log)
			return Clients{}, fmt.Errorf("init redis event bus: %w", err)
		}
		out.Events = b
	}

	return out, nil
}

func postgresConfig(p PostgresConfig) db.Config {
	return db.Config{
		URL:             p.URL,
		Host:            p.Host,
		Port:            p.Port,
		User:            p.User,
		Password:        p.Password,
		Name:            p.Name,
		SSLMode:         p.SSLMode,
		SimpleProtocol:  p.SimpleProtocol,
		MaxOpenConns:    p.MaxOpenConns,
		MaxIdleConns:    p.MaxIdleConns,
		ConnMaxLifetime: p.ConnMaxLifetime,
	}
}

func (c Clients) Close(log *logger.Logger) {
	if c.Events != nil {
		if err := c.Events.Close(); err != nil {
			log.Warn("Event bus close failed", "error", err)
		}
	}
	if c.Postgres != nil {
		if err := c.Postgres.Close(); err != nil {
			log.Warn("Postgres close failed", "error", err)
		}
	}
}
