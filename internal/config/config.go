// Package config provides configuration loading and management for the application.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// HTTP server port
	Port string

	// Logging level (debug, info, warn, error)
	LogLevel string

	// Optional YAML preset overriding the built-in economic parameters
	ParamsFile string

	// Base URLs for the external benchmark providers
	McKinseyURL string
	OECDURL     string
	AIIndexURL  string

	// OpenTelemetry endpoint for observability
	OtelEndpoint string

	// API keys for the benchmark providers, keyed by provider name
	APIKeys map[string]string

	// Timeouts and benchmark refresh settings
	RequestTimeout  time.Duration
	RefreshInterval time.Duration

	// Guard thresholds for refreshed parameters
	MaxSectorGain   float64
	MaxUseCaseROI   float64
	MinSourceCount  int
	GuardResetDelay time.Duration

	// Request rate limiting
	RequestsPerSecond float64
	RateBurst         int

	// Result export webhook
	WebhookURL      string
	WebhookAPIKey   string
	ExportBatchSize int
	ExportInterval  time.Duration

	// Cryptographic signing of exported batches
	SigningEnabled bool
}

// Load creates a new Config from environment variables
func Load() Config {
	apiKeys := map[string]string{}
	if raw := os.Getenv("API_KEYS"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &apiKeys)
	}

	return Config{
		Port:              GetEnvOrDefault("PORT", "8080"),
		LogLevel:          GetEnvOrDefault("LOG_LEVEL", "info"),
		ParamsFile:        GetEnvOrDefault("PARAMS_FILE", ""),
		McKinseyURL:       GetEnvOrDefault("MCKINSEY_URL", "https://api.mckinsey.com/ai-adoption/v2"),
		OECDURL:           GetEnvOrDefault("OECD_URL", "https://stats.oecd.org/sdmx-json/data/AI_ADOPTION"),
		AIIndexURL:        GetEnvOrDefault("AI_INDEX_URL", "https://aiindex.stanford.edu/api/metrics"),
		OtelEndpoint:      GetEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		APIKeys:           apiKeys,
		RequestTimeout:    GetEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		RefreshInterval:   GetEnvAsDuration("REFRESH_INTERVAL", 6*time.Hour),
		MaxSectorGain:     GetEnvAsFloat("MAX_SECTOR_GAIN", 1.0),  // 100% productivity gain ceiling
		MaxUseCaseROI:     GetEnvAsFloat("MAX_USE_CASE_ROI", 5.0), // 500% ROI multiple ceiling
		MinSourceCount:    GetEnvAsInt("MIN_SOURCE_COUNT", 2),
		GuardResetDelay:   GetEnvAsDuration("GUARD_RESET_DELAY", 5*time.Minute),
		RequestsPerSecond: GetEnvAsFloat("REQUESTS_PER_SECOND", 20.0),
		RateBurst:         GetEnvAsInt("RATE_BURST", 40),
		WebhookURL:        GetEnvOrDefault("WEBHOOK_URL", ""),
		WebhookAPIKey:     GetEnvOrDefault("WEBHOOK_API_KEY", ""),
		ExportBatchSize:   GetEnvAsInt("EXPORT_BATCH_SIZE", 100),
		ExportInterval:    GetEnvAsDuration("EXPORT_INTERVAL", time.Minute),
		SigningEnabled:    GetEnvAsBool("SIGNING_ENABLED", false),
	}
}

// GetEnv retrieves an environment variable and whether it exists
func GetEnv(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	return value, exists
}

// GetEnvOrDefault retrieves an environment variable or returns the default value if not set
func GetEnvOrDefault(key, defaultValue string) string {
	if value, exists := GetEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt retrieves an environment variable as an integer with a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := GetEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsFloat retrieves an environment variable as a float with a default value
func GetEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := GetEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetEnvAsBool retrieves an environment variable as a boolean with a default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := GetEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration retrieves an environment variable as a duration with a default value
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := GetEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
