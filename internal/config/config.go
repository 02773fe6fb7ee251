package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Database
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`
	DBPort         string `env:"DB_PORT" envDefault:"5432"`
	DBUser         string `env:"DB_USER" envDefault:"postgres"`
	DBPassword     string `env:"DB_PASSWORD,required,notEmpty"`
	DBName         string `env:"DB_NAME" envDefault:"civic_circle"`
	DBSSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"50"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`

	// Server
	Port         string `env:"PORT" envDefault:"8080"`
	CORSOrigins  string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
	BodyLimitMB  int    `env:"BODY_LIMIT_MB" envDefault:"8"` // inline images travel in the JSON body
	RateLimitMax int    `env:"RATE_LIMIT_MAX" envDefault:"120"`

	// Logging
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	LogRetention time.Duration `env:"LOG_RETENTION" envDefault:"720h"`

	// Observability
	SentryDSN        string `env:"SENTRY_DSN"`
	AppEnv           string `env:"APP_ENV" envDefault:"development"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"civic"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.BodyLimitMB < 1 {
		return nil, fmt.Errorf("BODY_LIMIT_MB must be positive, got %d", cfg.BodyLimitMB)
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// SlogLevel maps LOG_LEVEL to a slog level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}
