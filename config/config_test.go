package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("expected default data dir ./data, got %q", cfg.DataDir)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.StrictGrouping {
		t.Error("expected strict grouping to be disabled by default")
	}
	if cfg.WriteBacklog != 64 {
		t.Errorf("expected default backlog 64, got %d", cfg.WriteBacklog)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Errorf("expected default read timeout 15s, got %v", cfg.ReadTimeout)
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("TENDERBOOK_DATA_DIR", "/tmp/tenderbook")
	t.Setenv("TENDERBOOK_SERVER_PORT", "9090")
	t.Setenv("TENDERBOOK_STRICT_GROUPING", "true")
	t.Setenv("TENDERBOOK_PHOTO_URL_PREFIX", "https://example.test")
	t.Setenv("TENDERBOOK_LOG_FORMAT", "json")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.DataDir != "/tmp/tenderbook" || cfg.Port != "9090" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.StrictGrouping {
		t.Error("expected strict grouping to be enabled")
	}
	if cfg.PhotoURLPrefix != "https://example.test" {
		t.Errorf("unexpected photo url prefix %q", cfg.PhotoURLPrefix)
	}
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		description string
		key         string
		value       string
		want        string
	}{
		{"不正な真偽値", "TENDERBOOK_STRICT_GROUPING", "maybe", "parse env:"},
		{"不正な数値", "TENDERBOOK_WRITE_BACKLOG", "many", "parse env:"},
		{"不正なログレベル", "TENDERBOOK_LOG_LEVEL", "verbose", "invalid log level"},
		{"不正なログ形式", "TENDERBOOK_LOG_FORMAT", "xml", "invalid log format"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := NewConfig()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil {
			t.Fatalf("ParseLogLevel(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
