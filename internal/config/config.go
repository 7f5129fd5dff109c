package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	Storage  StorageConfig
	Qdrant   QdrantConfig
	Export   ExportConfig
	Usage    UsageConfig
	Worker   WorkerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	BodyLimit int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

// AIConfig selects the active provider; each provider keeps its own credentials.
type AIConfig struct {
	Provider    string
	Temperature float64
	MaxTokens   int
	MaxRetries  int
	RetryDelay  time.Duration
	OpenAI      ProviderConfig
	Anthropic   ProviderConfig
	Gemini      ProviderConfig
	OpenRouter  ProviderConfig
}

type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type StorageConfig struct {
	UploadPath     string
	MaxFileSize    int64
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
}

// UseObjectStore reports whether object storage credentials are present.
func (s StorageConfig) UseObjectStore() bool {
	return s.SupabaseURL != "" && s.SupabaseKey != ""
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

func (q QdrantConfig) Enabled() bool {
	return q.URL != ""
}

type ExportConfig struct {
	LibreOfficePath  string
	UnidocLicenseKey string
	DefaultPaper     string
	Timeout          time.Duration
}

type UsageConfig struct {
	FreeMonthlyAnalyses int
	RateLimitPerMinute  int
}

type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// Load reads configuration from the environment. A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	return &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", "3000"),
			Env:       env,
			BodyLimit: getEnvAsInt("BODY_LIMIT", 12*1024*1024),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "matchmycv"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", "72h"),
			Issuer:    getEnv("JWT_ISSUER", "matchmycv"),
		},
		AI: AIConfig{
			Provider:    strings.ToLower(getEnv("AI_PROVIDER", ProviderOpenAI)),
			Temperature: getEnvAsFloat("AI_TEMPERATURE", 0.3),
			MaxTokens:   getEnvAsInt("AI_MAX_TOKENS", 4096),
			// RETRY_MAX_ATTEMPTS and RETRY_INITIAL_DELAY are the older names.
			MaxRetries: getEnvAsInt("AI_MAX_RETRIES", getEnvAsInt("RETRY_MAX_ATTEMPTS", 3)),
			RetryDelay: getEnvAsDuration("AI_RETRY_DELAY", getEnv("RETRY_INITIAL_DELAY", "2s")),
			OpenAI: ProviderConfig{
				APIKey:  getEnv("OPENAI_API_KEY", ""),
				Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
				BaseURL: getEnv("OPENAI_BASE_URL", ""),
			},
			Anthropic: ProviderConfig{
				APIKey:  getEnv("ANTHROPIC_API_KEY", ""),
				Model:   getEnv("ANTHROPIC_MODEL", "claude-3-7-sonnet-latest"),
				BaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
			},
			Gemini: ProviderConfig{
				APIKey: getEnv("GEMINI_API_KEY", ""),
				Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			},
			OpenRouter: ProviderConfig{
				APIKey: getEnv("OPENROUTER_API_KEY", ""),
				Model:  getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
			},
		},
		Storage: StorageConfig{
			UploadPath:     getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize:    getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			SupabaseURL:    strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			SupabaseKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
			SupabaseBucket: getEnv("SUPABASE_BUCKET", "cvs"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "cv_guides"),
		},
		Export: ExportConfig{
			LibreOfficePath:  getEnv("LIBREOFFICE_PATH", ""),
			UnidocLicenseKey: getEnv("UNIDOC_LICENSE_KEY", ""),
			DefaultPaper:     strings.ToLower(getEnv("DEFAULT_PAPER", "a4")),
			Timeout:          getEnvAsDuration("EXPORT_TIMEOUT", "60s"),
		},
		Usage: UsageConfig{
			FreeMonthlyAnalyses: getEnvAsInt("FREE_MONTHLY_ANALYSES", 20),
			RateLimitPerMinute:  getEnvAsInt("RATE_LIMIT_PER_MINUTE", 10),
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 3),
			PollInterval: getEnvAsDuration("POLL_INTERVAL", "10s"),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", env != "development"),
			Debug: getEnvAsBool("LOG_DEBUG", env == "development"),
		},
	}
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		if c.IsDevelopment() {
			c.Auth.JWTSecret = "dev-secret-change-me"
		} else {
			errs = append(errs, errors.New("JWT_SECRET is required outside development"))
		}
	}

	provider, err := c.AI.Active()
	if err != nil {
		errs = append(errs, err)
	} else if provider.APIKey == "" {
		errs = append(errs, fmt.Errorf("api key for AI provider %q is not set", c.AI.Provider))
	}

	if c.Storage.MaxFileSize <= 0 {
		errs = append(errs, errors.New("MAX_FILE_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

// Active returns the credentials of the selected AI provider.
func (a AIConfig) Active() (ProviderConfig, error) {
	switch a.Provider {
	case ProviderOpenAI:
		return a.OpenAI, nil
	case ProviderAnthropic:
		return a.Anthropic, nil
	case ProviderGemini:
		return a.Gemini, nil
	case ProviderOpenRouter:
		return a.OpenRouter, nil
	default:
		return ProviderConfig{}, fmt.Errorf("unknown AI provider %q", a.Provider)
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
