package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"profile-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string   `env:"PORT" envDefault:"8080"`
	CORSAllowOrigin []string `env:"CORS_ALLOW_ORIGINS" envDefault:"http://localhost:3000"`
	ObjectStoreType string   `env:"OBJECT_STORE" envDefault:"local"`
	LocalStoreDir   string   `env:"LOCAL_STORE_DIR" envDefault:"./data"`
	AWSRegion       string   `env:"AWS_REGION"`
	S3Bucket        string   `env:"S3_BUCKET"`
	S3Prefix        string   `env:"S3_PREFIX"`
	SSEKMSKeyID     string   `env:"SSE_KMS_KEY_ID"`
	DatabaseURL     string   `env:"DATABASE_URL"`
	Env             string   `env:"ENV" envDefault:"dev"`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
	MediaBaseURL    string   `env:"MEDIA_BASE_URL" envDefault:"/api/v1/media/"`
	UploadMaxBytes  int64    `env:"UPLOAD_MAX_BYTES" envDefault:"3145728"`
	OTelEndpoint    string   `env:"OTEL_ENDPOINT"`
	OTelEnabled     bool     `env:"OTEL_ENABLED" envDefault:"true"`
	Export          ExportConfig
	RateLimit       RateLimitConfig
}

// ExportConfig tunes the profile PDF export pipeline.
type ExportConfig struct {
	ProfileTimeout    time.Duration `env:"EXPORT_PROFILE_TIMEOUT" envDefault:"5s"`
	ExperienceTimeout time.Duration `env:"EXPORT_EXPERIENCE_TIMEOUT" envDefault:"5s"`
	ImageTimeout      time.Duration `env:"EXPORT_IMAGE_TIMEOUT" envDefault:"10s"`
	MaxImageBytes     int64         `env:"EXPORT_MAX_IMAGE_BYTES" envDefault:"5242880"`
	Filename          string        `env:"EXPORT_FILENAME" envDefault:"profile.pdf"`
}

// RateLimitConfig holds token bucket settings per route group.
type RateLimitConfig struct {
	DefaultRPS   float64 `env:"RATE_LIMIT_DEFAULT_RPS" envDefault:"20"`
	DefaultBurst int     `env:"RATE_LIMIT_DEFAULT_BURST" envDefault:"40"`
	ExportRPS    float64 `env:"RATE_LIMIT_EXPORT_RPS" envDefault:"0.5"`
	ExportBurst  int     `env:"RATE_LIMIT_EXPORT_BURST" envDefault:"3"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		telemetry.Error("config.parse_failed", map[string]any{"err": err.Error()})
		cfg = Defaults()
	}

	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)
	cfg.CORSAllowOrigin = splitAndTrim(strings.Join(cfg.CORSAllowOrigin, ","))

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		telemetry.Error("config.database_url_missing", map[string]any{"env": cfg.Env})
	}

	return cfg
}

// Defaults returns the configuration produced by an empty environment.
func Defaults() Config {
	var cfg Config
	_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.ObjectStoreType = normalizeStoreType(cfg.ObjectStoreType)
	return cfg
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
