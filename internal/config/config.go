package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/insightdelivered/momo-score/internal/models"
)

// Config aggregates application configuration values.
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Scoring ScoringConfig
}

// ServerConfig governs the HTTP API.
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	BodyLimit      int // bytes
	AllowedOrigins []string
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string
	Format string // text|json
}

// ScoringConfig holds defaults for extraction and scoring.
type ScoringConfig struct {
	DefaultPeriod models.Period
	// TimezoneOffset is the zone notification timestamps are read in.
	TimezoneOffset time.Duration
}

// Addr returns host:port for the listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Location returns the fixed zone for TimezoneOffset.
func (c ScoringConfig) Location() *time.Location {
	if c.TimezoneOffset == 3*time.Hour {
		return time.FixedZone("EAT", 3*60*60)
	}
	return time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", int(c.TimezoneOffset.Hours()), absMinutes(c.TimezoneOffset)), int(c.TimezoneOffset.Seconds()))
}

const envPrefix = "MOMO"

func defaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.body_limit", 4*1024*1024)
	v.SetDefault("server.allowed_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("default_period", string(models.PeriodMonth))
	v.SetDefault("timezone_offset", "3h")
}

// Load reads configuration from MOMO_* environment variables and an optional
// momo.yaml (in the working directory, or at MOMO_CONFIG), applying defaults.
func Load() (Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("momo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || v.GetString("config") != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:           v.GetString("server.host"),
			Port:           v.GetInt("server.port"),
			BodyLimit:      v.GetInt("server.body_limit"),
			AllowedOrigins: splitCSV(v.GetString("server.allowed_origins")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("log.level"),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("port %d is out of range", cfg.Server.Port)
	}
	if cfg.Server.BodyLimit <= 0 {
		return Config{}, fmt.Errorf("body limit must be positive, got %d", cfg.Server.BodyLimit)
	}

	var err error
	if cfg.Server.ReadTimeout, err = duration(v, "server.read_timeout"); err != nil {
		return Config{}, err
	}
	if cfg.Server.WriteTimeout, err = duration(v, "server.write_timeout"); err != nil {
		return Config{}, err
	}

	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return Config{}, fmt.Errorf("invalid log format %q: use text or json", cfg.Logging.Format)
	}

	if cfg.Scoring.DefaultPeriod, err = models.ParsePeriod(v.GetString("default_period")); err != nil {
		return Config{}, fmt.Errorf("default period: %w", err)
	}

	if cfg.Scoring.TimezoneOffset, err = duration(v, "timezone_offset"); err != nil {
		return Config{}, err
	}
	if cfg.Scoring.TimezoneOffset < -14*time.Hour || cfg.Scoring.TimezoneOffset > 14*time.Hour {
		return Config{}, fmt.Errorf("timezone offset %s is out of range", cfg.Scoring.TimezoneOffset)
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func absMinutes(d time.Duration) int {
	m := int(d.Minutes()) % 60
	if m < 0 {
		return -m
	}
	return m
}
