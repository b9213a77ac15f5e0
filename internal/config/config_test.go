package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/insightdelivered/momo-score/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr: got %q", cfg.Server.Addr())
	}
	if cfg.Server.ReadTimeout != 10*time.Second || cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("timeouts: got %v / %v", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins: got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}
	if cfg.Scoring.DefaultPeriod != models.PeriodMonth {
		t.Errorf("DefaultPeriod: got %q", cfg.Scoring.DefaultPeriod)
	}
	if cfg.Scoring.TimezoneOffset != 3*time.Hour {
		t.Errorf("TimezoneOffset: got %v", cfg.Scoring.TimezoneOffset)
	}
	if name, off := time.Date(2025, 1, 1, 0, 0, 0, 0, cfg.Scoring.Location()).Zone(); name != "EAT" || off != 3*60*60 {
		t.Errorf("Location: got %s %d", name, off)
	}
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MOMO_SERVER_PORT", "9090")
	t.Setenv("MOMO_SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MOMO_LOG_FORMAT", "JSON")
	t.Setenv("MOMO_LOG_LEVEL", "debug")
	t.Setenv("MOMO_DEFAULT_PERIOD", "week")
	t.Setenv("MOMO_TIMEZONE_OFFSET", "-5h30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port: got %d", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins: got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}
	if cfg.Scoring.DefaultPeriod != models.PeriodWeek {
		t.Errorf("DefaultPeriod: got %q", cfg.Scoring.DefaultPeriod)
	}
	if _, off := time.Date(2025, 1, 1, 0, 0, 0, 0, cfg.Scoring.Location()).Zone(); off != -(5*3600 + 1800) {
		t.Errorf("Location offset: got %d", off)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "server:\n  port: 7070\nlog:\n  level: warn\ndefault_period: all\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOMO_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7070 || cfg.Logging.Level != "warn" || cfg.Scoring.DefaultPeriod != models.PeriodAll {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "MOMO_SERVER_PORT", "70000"},
		{"bad timeout", "MOMO_SERVER_READ_TIMEOUT", "soon"},
		{"bad log format", "MOMO_LOG_FORMAT", "xml"},
		{"bad period", "MOMO_DEFAULT_PERIOD", "year"},
		{"offset too large", "MOMO_TIMEZONE_OFFSET", "15h"},
		{"missing config file", "MOMO_CONFIG", "/nonexistent/momo.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_InvalidPeriodWraps(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MOMO_DEFAULT_PERIOD", "fortnight")

	_, err := Load()
	if !errors.Is(err, models.ErrInvalidPeriod) {
		t.Errorf("got %v, want ErrInvalidPeriod", err)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
