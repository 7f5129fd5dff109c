package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("PORT", "")
	t.Setenv("MAX_FILE_SIZE", "not-a-number")
	t.Setenv("JWT_TTL", "garbage")
	t.Setenv("SUPABASE_URL", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, int64(10485760), cfg.Storage.MaxFileSize)
	assert.Equal(t, 72*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Storage.UseObjectStore())
	assert.True(t, cfg.Log.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("AI_PROVIDER", "Anthropic")
	t.Setenv("AI_TEMPERATURE", "0.7")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")
	t.Setenv("FREE_MONTHLY_ANALYSES", "5")

	cfg := Load()

	assert.Equal(t, ProviderAnthropic, cfg.AI.Provider)
	assert.InDelta(t, 0.7, cfg.AI.Temperature, 1e-9)
	assert.Equal(t, "https://example.supabase.co", cfg.Storage.SupabaseURL)
	assert.True(t, cfg.Storage.UseObjectStore())
	assert.Equal(t, 5, cfg.Usage.FreeMonthlyAnalyses)
	assert.True(t, cfg.Log.JSON)
}

func TestValidate(t *testing.T) {
	t.Run("development fills secret", func(t *testing.T) {
		cfg := &Config{
			Server:  ServerConfig{Env: "development"},
			AI:      AIConfig{Provider: ProviderOpenAI, OpenAI: ProviderConfig{APIKey: "k"}},
			Storage: StorageConfig{MaxFileSize: 1},
		}
		require.NoError(t, cfg.Validate())
		assert.NotEmpty(t, cfg.Auth.JWTSecret)
	})

	t.Run("production requires secret and key", func(t *testing.T) {
		cfg := &Config{
			Server:  ServerConfig{Env: "production"},
			AI:      AIConfig{Provider: ProviderGemini},
			Storage: StorageConfig{MaxFileSize: 1},
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
		assert.Contains(t, err.Error(), "gemini")
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := &Config{
			Server:  ServerConfig{Env: "development"},
			AI:      AIConfig{Provider: "llama"},
			Storage: StorageConfig{MaxFileSize: 1},
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown AI provider")
	})
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", DBName: "n", SSLMode: "require",
	}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=require", cfg.GetDatabaseDSN())
}

func TestRetryFallbackNames(t *testing.T) {
	t.Setenv("AI_MAX_RETRIES", "")
	t.Setenv("AI_RETRY_DELAY", "")
	t.Setenv("RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("RETRY_INITIAL_DELAY", "500ms")

	cfg := Load()
	assert.Equal(t, 5, cfg.AI.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.AI.RetryDelay)

	t.Setenv("AI_MAX_RETRIES", "1")
	assert.Equal(t, 1, Load().AI.MaxRetries)
}
