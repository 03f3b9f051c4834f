package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App       AppConfig
	Paths     PathsConfig
	Database  DatabaseConfig
	Providers ProvidersConfig
	Chat      ChatConfig
	RateLimit RateLimitConfig
	CacheTTL  CacheTTLConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	BasePath           string
	BaseUrl            string
	BasicAuth          []string
	TrustedProxies     []string
	CorsAllowedOrigins []string
}

type PathsConfig struct {
	BaseDir string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string // File path for SQLite, DB name for Postgres
	ValkeyEnabled   bool
	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyDB        int
	ValkeyKeyPrefix string
}

// ProvidersConfig holds the outbound collaborator credentials. Completion
// falls back from the configured provider to whichever key is present.
type ProvidersConfig struct {
	CompletionProvider string // "openai" or "gemini"
	OpenAIKey          string
	OpenAIModel        string
	GeminiKey          string
	GeminiModel        string
	OpenWeatherKey     string
}

type ChatConfig struct {
	HistoryLimit int
	CallTimeout  time.Duration
}

type RateLimitConfig struct {
	PerSecond int
	PerMinute int
}

// CacheTTLConfig holds per-source freshness windows. Weather moves fast,
// rates are reference data, culture barely changes.
type CacheTTLConfig struct {
	Weather  time.Duration
	Currency time.Duration
	Culture  time.Duration
}

// Global provides access to the loaded configuration globally.
var Global *Config

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	baseDir := getEnv("APP_BASE_DIR", "storages")

	var cors []string
	if v := getEnv("APP_CORS_ALLOWED_ORIGINS", ""); v != "" {
		cors = strings.Split(v, ",")
	} else {
		cors = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	appCfg := AppConfig{
		Version:            "v1.0.0",
		Port:               getEnv("APP_PORT", "3000"),
		Debug:              getEnvBool("APP_DEBUG", false),
		Environment:        getEnv("APP_ENV", "development"),
		BasePath:           getEnv("APP_BASE_PATH", ""),
		BaseUrl:            getEnv("APP_BASE_URL", "http://localhost:3000"),
		CorsAllowedOrigins: cors,
	}
	if v := getEnv("APP_BASIC_AUTH", ""); v != "" {
		appCfg.BasicAuth = strings.Split(v, ",")
	}
	if v := getEnv("APP_TRUSTED_PROXIES", ""); v != "" {
		appCfg.TrustedProxies = strings.Split(v, ",")
	}

	dbCfg := DatabaseConfig{
		Driver:          getEnv("DB_DRIVER", "sqlite"),
		Name:            getEnv("DB_NAME", filepath.Join(baseDir, "concierge.db")),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		ValkeyEnabled:   getEnvBool("VALKEY_ENABLED", false),
		ValkeyAddress:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
		ValkeyPassword:  getEnv("VALKEY_PASSWORD", ""),
		ValkeyDB:        getEnvInt("VALKEY_DB", 0),
		ValkeyKeyPrefix: getEnv("VALKEY_KEY_PREFIX", "concierge:"),
	}

	cfg := &Config{
		App:      appCfg,
		Paths:    PathsConfig{BaseDir: baseDir},
		Database: dbCfg,
		Providers: ProvidersConfig{
			CompletionProvider: getEnv("COMPLETION_PROVIDER", "openai"),
			OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:        getEnv("OPENAI_MODEL", ""),
			GeminiKey:          getEnv("GEMINI_API_KEY", ""),
			GeminiModel:        getEnv("GEMINI_MODEL", ""),
			OpenWeatherKey:     getEnv("OPENWEATHER_API_KEY", ""),
		},
		Chat: ChatConfig{
			HistoryLimit: getEnvInt("CHAT_HISTORY_LIMIT", 20),
			CallTimeout:  getEnvDuration("CHAT_CALL_TIMEOUT", 8*time.Second),
		},
		RateLimit: RateLimitConfig{
			PerSecond: getEnvInt("RATE_LIMIT_PER_SECOND", 3),
			PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		},
		CacheTTL: CacheTTLConfig{
			Weather:  getEnvDuration("CACHE_TTL_WEATHER", 30*time.Minute),
			Currency: getEnvDuration("CACHE_TTL_CURRENCY", time.Hour),
			Culture:  getEnvDuration("CACHE_TTL_CULTURE", 24*time.Hour),
		},
	}

	Global = cfg
	return cfg, nil
}
