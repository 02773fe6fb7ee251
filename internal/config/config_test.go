package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBHost != "localhost" {
		t.Errorf("expected DBHost localhost, got %s", cfg.DBHost)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected Port 8080, got %s", cfg.Port)
	}
	if cfg.LogRetention != 30*24*time.Hour {
		t.Errorf("expected LogRetention 720h, got %s", cfg.LogRetention)
	}
	if cfg.BodyLimit() != 8*1024*1024 {
		t.Errorf("expected 8MB body limit, got %d", cfg.BodyLimit())
	}
}

func TestLoadRequiresPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DB_PASSWORD is empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_RETENTION", "48h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DBHost != "db.internal" {
		t.Errorf("expected DBHost db.internal, got %s", cfg.DBHost)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected Port 9000, got %s", cfg.Port)
	}
	if cfg.LogRetention != 48*time.Hour {
		t.Errorf("expected LogRetention 48h, got %s", cfg.LogRetention)
	}
}

func TestLoadRejectsBodyLimit(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("BODY_LIMIT_MB", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero body limit")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "h", DBPort: "1", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "require"}
	dsn := cfg.DSN()

	for _, part := range []string{"host=h", "port=1", "user=u", "password=p", "dbname=n", "sslmode=require", "TimeZone=UTC"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q missing %q", dsn, part)
		}
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.in}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
