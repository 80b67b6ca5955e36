package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the API service.
// It is read once at startup and never mutated afterwards.
type Config struct {
	// Server
	Port        string
	Environment string

	// Provider
	ProviderAPIKey    string
	ProviderBaseURL   string
	ProviderModel     string
	ProviderTimeout   time.Duration
	ProviderMaxTokens int

	// Engine policy
	DefaultEngine  string
	AllowedEngines []string

	// HTTP surface
	AllowedOrigins     []string
	RateLimitPerMinute int

	// Optional infrastructure, empty disables it
	RedisURL     string
	NATSURL      string
	OTLPEndpoint string

	// Security
	JWTSecret    string
	APIKeyHashes []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("GO_ENV", "development"),
		ProviderAPIKey:     getEnv("PROVIDER_API_KEY", ""),
		ProviderBaseURL:    getEnv("PROVIDER_BASE_URL", "https://api.mistral.ai/v1"),
		ProviderModel:      getEnv("PROVIDER_MODEL", "mistral-small-latest"),
		ProviderTimeout:    getDuration("PROVIDER_TIMEOUT", 30*time.Second),
		ProviderMaxTokens:  getInt("PROVIDER_MAX_TOKENS", 600),
		DefaultEngine:      strings.ToLower(getEnv("DEFAULT_ENGINE", "stable")),
		AllowedEngines:     lowerAll(getList("ALLOWED_ENGINES", []string{"stable", "sdxl", "flux", "dalle", "midjourney"})),
		AllowedOrigins:     getList("CORS_ALLOWED_ORIGINS", nil),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 30),
		RedisURL:           getEnv("REDIS_URL", ""),
		NATSURL:            getEnv("NATS_URL", ""),
		OTLPEndpoint:       getEnv("OTLP_ENDPOINT", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		APIKeyHashes:       getList("API_KEY_HASHES", nil),
	}
}

// ProviderConfigured reports whether a provider credential is present.
func (c *Config) ProviderConfigured() bool {
	return c.ProviderAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func lowerAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}
