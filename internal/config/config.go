package config

import (
	"os"
	"strconv"
	"time"
)

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects the content store that keeps raw evidence bytes.
// Driver is "memory" (default) or "minio".
type StorageConfig struct {
	Driver string
	MinIO  MinIOConfig
}

// GeminiConfig holds settings for the multimodal AI service.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	TimeoutSec  int
	MaxAttempts int
}

// Timeout is the per-request deadline applied by the AI adapter.
func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSec) * time.Second
}

// AnalysisConfig tunes the analysis orchestrator.
type AnalysisConfig struct {
	PendingDelayMS int
	MaxParallel    int
	PricingFile    string
}

// PendingDelay is how long files stay visible in PENDING before ANALYZING.
func (a AnalysisConfig) PendingDelay() time.Duration {
	return time.Duration(a.PendingDelayMS) * time.Millisecond
}

// SearchConfig tunes the search orchestrator.
type SearchConfig struct {
	CacheSize int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	TZLocation string
	LogLevel   string
	Storage    StorageConfig
	Gemini     GeminiConfig
	Analysis   AnalysisConfig
	Search     SearchConfig
}

// Location resolves TZLocation, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TZLocation)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:    getEnv("APP_HOST", "localhost:8080"),
		Port:       getEnv("PORT", "8080"),
		TZLocation: getEnv("TZ_LOCATION", "UTC"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "memory"),
			MinIO: MinIOConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", ""),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", ""),
				UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			},
		},
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL:     getEnv("GEMINI_BASE_URL", ""),
			TimeoutSec:  getEnvInt("GEMINI_TIMEOUT_SEC", 120),
			MaxAttempts: getEnvInt("GEMINI_MAX_ATTEMPTS", 1),
		},
		Analysis: AnalysisConfig{
			PendingDelayMS: getEnvInt("ANALYSIS_PENDING_DELAY_MS", 50),
			MaxParallel:    getEnvInt("ANALYSIS_MAX_PARALLEL", 0),
			PricingFile:    getEnv("PRICING_FILE", ""),
		},
		Search: SearchConfig{
			CacheSize: getEnvInt("SEARCH_CACHE_SIZE", 256),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
