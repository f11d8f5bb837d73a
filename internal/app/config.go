package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/partnerhub-backend/internal/platform/envutil"
)

type HTTPConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	CORSOrigins       []string      `yaml:"cors_origins"`
	// PublicBaseURL is the externally visible origin webhooks are signed against.
	PublicBaseURL string `yaml:"public_base_url"`
}

type PostgresConfig struct {
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	SimpleProtocol  bool          `yaml:"simple_protocol"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
	MatchFunction   string        `yaml:"match_function"`
}

type HubSpotConfig struct {
	BaseURL      string        `yaml:"base_url"`
	AccessToken  string        `yaml:"access_token"`
	ClientSecret string        `yaml:"client_secret"` // enables webhook signature verification
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
}

type AIConfig struct {
	Provider   string        `yaml:"provider"`
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	ChatModel  string        `yaml:"chat_model"`
	EmbedModel string        `yaml:"embed_model"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type AuthConfig struct {
	SupabaseJWTSecret string `yaml:"supabase_jwt_secret"`
	Audience          string `yaml:"audience"`
}

type OTelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type Config struct {
	Env         string `yaml:"env"`
	ServiceName string `yaml:"service_name"`
	Version     string `yaml:"version"`

	HTTP     HTTPConfig     `yaml:"http"`
	Postgres PostgresConfig `yaml:"postgres"`
	HubSpot  HubSpotConfig  `yaml:"hubspot"`
	AI       AIConfig       `yaml:"ai"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	OTel     OTelConfig     `yaml:"otel"`
}

func defaultConfig() Config {
	return Config{
		Env:         "development",
		ServiceName: "partnerhub-backend",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       2 * time.Minute,
			ShutdownTimeout:   15 * time.Second,
			MaxBodyBytes:      1 << 20,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          "5432",
			User:          "postgres",
			Name:          "postgres",
			SSLMode:       "disable",
			MaxOpenConns:  10,
			MaxIdleConns:  5,
			AutoMigrate:   true,
			MatchFunction: "match_documents",
		},
		HubSpot: HubSpotConfig{
			BaseURL:    "https://api.hubapi.com",
			Timeout:    15 * time.Second,
			MaxRetries: 2,
		},
		AI: AIConfig{
			Provider:   AIProviderOpenAI,
			Timeout:    60 * time.Second,
			MaxRetries: 2,
		},
		OTel: OTelConfig{SampleRatio: 0.1},
	}
}

// LoadConfig reads .env (if present), then CONFIG_PATH (YAML, optional), then environment
// overrides. Later sources win.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()
	if path := envutil.String("CONFIG_PATH", ""); path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.ServiceName)
	cfg.Version = envutil.String("APP_VERSION", cfg.Version)

	h := &cfg.HTTP
	if port := envutil.String("PORT", ""); port != "" {
		h.Addr = ":" + port
	}
	h.Addr = envutil.String("HTTP_ADDR", h.Addr)
	h.ReadHeaderTimeout = envutil.Duration("HTTP_READ_HEADER_TIMEOUT", h.ReadHeaderTimeout)
	h.IdleTimeout = envutil.Duration("HTTP_IDLE_TIMEOUT", h.IdleTimeout)
	h.ShutdownTimeout = envutil.Duration("HTTP_SHUTDOWN_TIMEOUT", h.ShutdownTimeout)
	h.MaxBodyBytes = envutil.Int64("HTTP_MAX_BODY_BYTES", h.MaxBodyBytes)
	h.CORSOrigins = envutil.List("CORS_ORIGINS", h.CORSOrigins)
	h.PublicBaseURL = envutil.String("PUBLIC_BASE_URL", h.PublicBaseURL)

	p := &cfg.Postgres
	p.URL = envutil.String("SUPABASE_DB_URL", p.URL)
	p.URL = envutil.String("DATABASE_URL", p.URL)
	p.Host = envutil.String("POSTGRES_HOST", p.Host)
	p.Port = envutil.String("POSTGRES_PORT", p.Port)
	p.User = envutil.String("POSTGRES_USER", p.User)
	p.Password = envutil.String("POSTGRES_PASSWORD", p.Password)
	p.Name = envutil.String("POSTGRES_NAME", p.Name)
	p.SSLMode = envutil.String("POSTGRES_SSLMODE", p.SSLMode)
	p.SimpleProtocol = envutil.Bool("POSTGRES_SIMPLE_PROTOCOL", p.SimpleProtocol)
	p.MaxOpenConns = envutil.Int("POSTGRES_MAX_OPEN_CONNS", p.MaxOpenConns)
	p.MaxIdleConns = envutil.Int("POSTGRES_MAX_IDLE_CONNS", p.MaxIdleConns)
	p.ConnMaxLifetime = envutil.Duration("POSTGRES_CONN_MAX_LIFETIME", p.ConnMaxLifetime)
	p.AutoMigrate = envutil.Bool("POSTGRES_AUTO_MIGRATE", p.AutoMigrate)
	p.MatchFunction = envutil.String("MATCH_DOCUMENTS_FUNCTION", p.MatchFunction)

	hs := &cfg.HubSpot
	hs.BaseURL = envutil.String("HUBSPOT_BASE_URL", hs.BaseURL)
	hs.AccessToken = envutil.String("HUBSPOT_ACCESS_TOKEN", hs.AccessToken)
	hs.ClientSecret = envutil.String("HUBSPOT_CLIENT_SECRET", hs.ClientSecret)
	hs.Timeout = envutil.Duration("HUBSPOT_TIMEOUT", hs.Timeout)
	hs.MaxRetries = envutil.Int("HUBSPOT_MAX_RETRIES", hs.MaxRetries)

	ai := &cfg.AI
	ai.Provider = envutil.String("AI_PROVIDER", ai.Provider)
	ai.BaseURL = envutil.String("OPENAI_BASE_URL", ai.BaseURL)
	ai.BaseURL = envutil.String("AI_BASE_URL", ai.BaseURL)
	ai.APIKey = envutil.String("OPENAI_API_KEY", ai.APIKey)
	ai.APIKey = envutil.String("AI_API_KEY", ai.APIKey)
	ai.ChatModel = envutil.String("AI_CHAT_MODEL", ai.ChatModel)
	ai.EmbedModel = envutil.String("AI_EMBED_MODEL", ai.EmbedModel)
	ai.Timeout = envutil.Duration("AI_TIMEOUT", ai.Timeout)
	ai.MaxRetries = envutil.Int("AI_MAX_RETRIES", ai.MaxRetries)

	r := &cfg.Redis
	r.Addr = envutil.String("REDIS_ADDR", r.Addr)
	r.Password = envutil.String("REDIS_PASSWORD", r.Password)
	r.DB = envutil.Int("REDIS_DB", r.DB)
	r.Channel = envutil.String("REDIS_CHANNEL", r.Channel)

	cfg.Auth.SupabaseJWTSecret = envutil.String("SUPABASE_JWT_SECRET", cfg.Auth.SupabaseJWTSecret)
	cfg.Auth.Audience = envutil.String("SUPABASE_JWT_AUDIENCE", cfg.Auth.Audience)

	o := &cfg.OTel
	o.Enabled = envutil.Bool("OTEL_ENABLED", o.Enabled)
	o.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", o.Endpoint)
	o.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", o.Headers)
	o.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", o.Insecure)
	o.SampleRatio = envutil.Float64("OTEL_SAMPLER_RATIO", o.SampleRatio)
}

func (c *Config) normalize() {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	if c.AI.Provider == "" {
		c.AI.Provider = AIProviderOpenAI
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 1 << 20
	}
	if c.HubSpot.MaxRetries < 0 {
		c.HubSpot.MaxRetries = 0
	}
	if c.AI.MaxRetries < 0 {
		c.AI.MaxRetries = 0
	}
}

// Validate checks everything the HTTP server needs.
func (c Config) Validate() error {
	if err := c.ValidateIngestion(); err != nil {
		return err
	}
	switch c.AI.Provider {
	case AIProviderOpenAI:
		if strings.TrimSpace(c.AI.APIKey) == "" {
			return errors.New("config: OPENAI_API_KEY is required")
		}
	case AIProviderCompat:
		if strings.TrimSpace(c.AI.BaseURL) == "" {
			return errors.New("config: AI_BASE_URL is required for the compat provider")
		}
		if strings.TrimSpace(c.AI.ChatModel) == "" || strings.TrimSpace(c.AI.EmbedModel) == "" {
			return errors.New("config: AI_CHAT_MODEL and AI_EMBED_MODEL are required for the compat provider")
		}
	default:
		return fmt.Errorf("config: unknown AI_PROVIDER %q", c.AI.Provider)
	}
	return nil
}

// ValidateIngestion checks only what the lead sync path needs (store and CRM).
func (c Config) ValidateIngestion() error {
	if strings.TrimSpace(c.Postgres.URL) == "" && strings.TrimSpace(c.Postgres.Host) == "" {
		return errors.New("config: DATABASE_URL or POSTGRES_HOST is required")
	}
	if strings.TrimSpace(c.HubSpot.AccessToken) == "" {
		return errors.New("config: HUBSPOT_ACCESS_TOKEN is required")
	}
	return nil
}
