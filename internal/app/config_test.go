package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"CONFIG_PATH", "LOG_MODE", "OTEL_SERVICE_NAME", "APP_VERSION",
	"PORT", "HTTP_ADDR", "HTTP_MAX_BODY_BYTES", "CORS_ORIGINS", "PUBLIC_BASE_URL",
	"SUPABASE_DB_URL", "DATABASE_URL", "POSTGRES_HOST", "POSTGRES_AUTO_MIGRATE", "MATCH_DOCUMENTS_FUNCTION",
	"HUBSPOT_ACCESS_TOKEN", "HUBSPOT_CLIENT_SECRET", "HUBSPOT_MAX_RETRIES",
	"AI_PROVIDER", "OPENAI_BASE_URL", "AI_BASE_URL", "OPENAI_API_KEY", "AI_API_KEY", "AI_CHAT_MODEL", "AI_EMBED_MODEL",
	"REDIS_ADDR", "SUPABASE_JWT_SECRET", "OTEL_ENABLED", "OTEL_SAMPLER_RATIO",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
	require.Equal(t, "match_documents", cfg.Postgres.MatchFunction)
	require.True(t, cfg.Postgres.AutoMigrate)
	require.Equal(t, AIProviderOpenAI, cfg.AI.Provider)
	require.Equal(t, 2, cfg.HubSpot.MaxRetries)
	require.False(t, cfg.OTel.Enabled)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
env: production
http:
  addr: ":9000"
  shutdown_timeout: 30s
  cors_origins: ["https://partners.example.com"]
postgres:
  url: postgres://file@db/leads
  auto_migrate: false
hubspot:
  access_token: file-token
ai:
  provider: COMPAT
  base_url: http://localhost:11434/v1
  chat_model: llama3
  embed_model: nomic-embed-text
`)
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "7070")
	t.Setenv("HUBSPOT_ACCESS_TOKEN", "env-token")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Env)
	require.Equal(t, ":7070", cfg.HTTP.Addr)
	require.Equal(t, 30*time.Second, cfg.HTTP.ShutdownTimeout)
	require.Equal(t, []string{"https://partners.example.com"}, cfg.HTTP.CORSOrigins)
	require.Equal(t, "postgres://file@db/leads", cfg.Postgres.URL)
	require.False(t, cfg.Postgres.AutoMigrate)
	require.Equal(t, "env-token", cfg.HubSpot.AccessToken)
	require.Equal(t, AIProviderCompat, cfg.AI.Provider)
	require.InDelta(t, 0.5, cfg.OTel.SampleRatio, 1e-9)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := defaultConfig()
	base.HubSpot.AccessToken = "tok"
	base.AI.APIKey = "sk"

	require.NoError(t, base.Validate())

	noToken := base
	noToken.HubSpot.AccessToken = ""
	require.ErrorContains(t, noToken.Validate(), "HUBSPOT_ACCESS_TOKEN")
	require.ErrorContains(t, noToken.ValidateIngestion(), "HUBSPOT_ACCESS_TOKEN")

	noKey := base
	noKey.AI.APIKey = ""
	require.ErrorContains(t, noKey.Validate(), "OPENAI_API_KEY")
	require.NoError(t, noKey.ValidateIngestion())

	compat := base
	compat.AI.Provider = AIProviderCompat
	compat.AI.BaseURL = "http://localhost:11434/v1"
	require.ErrorContains(t, compat.Validate(), "AI_CHAT_MODEL")

	unknown := base
	unknown.AI.Provider = "bedrock"
	require.ErrorContains(t, unknown.Validate(), "unknown AI_PROVIDER")
}
