package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetAllSettings returns a map of the dynamic settings currently loaded in
// memory, for the settings endpoint.
func GetAllSettings() map[string]any {
	if Global == nil {
		return map[string]any{}
	}
	return map[string]any{
		"app_debug":             Global.App.Debug,
		"app_version":           Global.App.Version,
		"completion_provider":   Global.Providers.CompletionProvider,
		"chat_history_limit":    Global.Chat.HistoryLimit,
		"rate_limit_per_second": Global.RateLimit.PerSecond,
		"rate_limit_per_minute": Global.RateLimit.PerMinute,
		"cache_ttl_weather":     Global.CacheTTL.Weather.String(),
		"cache_ttl_currency":    Global.CacheTTL.Currency.String(),
		"cache_ttl_culture":     Global.CacheTTL.Culture.String(),
	}
}

// Helpers
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		vLower := strings.ToLower(v)
		return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
