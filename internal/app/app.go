package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/partnerhub-backend/internal/data/db"
	"github.com/yungbote/partnerhub-backend/internal/http"
	"github.com/yungbote/partnerhub-backend/internal/observability"
	"github.com/yungbote/partnerhub-backend/internal/platform/logger"
)

type App struct {
	Log     *logger.Logger
	Cfg     Config
	DB      *gorm.DB
	Clients Clients
	Repos   Repos
	Modules Modules
	Server  *http.Server

	otelShutdown func(context.Context) error
}

// New wires the HTTP service: webhook ingestion plus chat.
func New(ctx context.Context) (*App, error) {
	return build(ctx, true)
}

// NewIngestion wires only the lead sync path. It needs no AI credentials and starts no server.
func NewIngestion(ctx context.Context) (*App, error) {
	return build(ctx, false)
}

func build(ctx context.Context, serve bool) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if serve {
		err = cfg.Validate()
	} else {
		err = cfg.ValidateIngestion()
	}
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OTel.Enabled,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
		Version:     cfg.Version,
		Endpoint:    cfg.OTel.Endpoint,
		Headers:     observability.ParseHeaders(cfg.OTel.Headers),
		Insecure:    cfg.OTel.Insecure,
		SampleRatio: cfg.OTel.SampleRatio,
	})

	a := &App{Log: log, Cfg: cfg, otelShutdown: otelShutdown}

	clients, err := wireClients(ctx, log, cfg, clientOptions{skipAI: !serve})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Clients = clients
	a.DB = clients.Postgres.DB()

	if cfg.Postgres.AutoMigrate {
		log.Info("Running auto migrations...")
		if err := db.AutoMigrateAll(a.DB); err != nil {
			a.Close()
			return nil, fmt.Errorf("postgres automigrate: %w", err)
		}
		if err := db.EnsureLeadIndexes(a.DB); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Repos, err = wireRepos(a.DB, log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Modules = wireModules(log, a.Clients, a.Repos)

	if !serve {
		return a, nil
	}

	mw, err := wireMiddleware(log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	handlers := wireHandlers(log, a.Modules, a.Clients)
	router := wireRouter(log, cfg, handlers, mw)
	a.Server = http.NewServer(log, http.ServerConfig{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout,
	}, router)
	return a, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app: no server wired")
	}
	return a.Server.Run(ctx)
}

// Close releases clients, flushes spans and syncs the logger. Safe on a partially built App.
func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close(a.Log)
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
