// Package config loads server settings from an optional YAML file overlaid
// by HEXAGON_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "HEXAGON_"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`
	Live   LiveConfig   `yaml:"live" envPrefix:"LIVE_"`
	Login  LoginConfig  `yaml:"login" envPrefix:"LOGIN_"`
	I18n   I18nConfig   `yaml:"i18n" envPrefix:"I18N_"`
	Log    LogConfig    `yaml:"log" envPrefix:"LOG_"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type LiveConfig struct {
	Codec          string        `yaml:"codec" env:"CODEC"` // json, msgpack or phoenix
	PingInterval   time.Duration `yaml:"ping_interval" env:"PING_INTERVAL"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	SessionIdle    time.Duration `yaml:"session_idle" env:"SESSION_IDLE"`
	MaxSessions    int           `yaml:"max_sessions" env:"MAX_SESSIONS"`
	MaxMessageSize int64         `yaml:"max_message_size" env:"MAX_MESSAGE_SIZE"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	EventRate      float64       `yaml:"event_rate" env:"EVENT_RATE"` // per connection per second, 0 disables
	EventBurst     int           `yaml:"event_burst" env:"EVENT_BURST"`
	MaxConnsPerIP  int           `yaml:"max_conns_per_ip" env:"MAX_CONNS_PER_IP"` // 0 disables
	DevMode        bool          `yaml:"dev_mode" env:"DEV_MODE"`
}

type LoginConfig struct {
	Delay         time.Duration `yaml:"delay" env:"DELAY"`
	DashboardPath string        `yaml:"dashboard_path" env:"DASHBOARD_PATH"`
}

type I18nConfig struct {
	DefaultLocale string `yaml:"default_locale" env:"DEFAULT_LOCALE"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	JSON  bool   `yaml:"json" env:"JSON"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Live: LiveConfig{
			Codec:          "json",
			PingInterval:   30 * time.Second,
			ReadTimeout:    60 * time.Second,
			SessionIdle:    2 * time.Minute,
			MaxSessions:    10000,
			MaxMessageSize: 64 * 1024,
			EventRate:      20,
			EventBurst:     40,
			MaxConnsPerIP:  50,
		},
		Login: LoginConfig{
			Delay:         2 * time.Second,
			DashboardPath: "/dashboard",
		},
		I18n: I18nConfig{
			DefaultLocale: "en",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path (skipped when empty or missing), applies the environment
// and validates the result.
func Load(path string) (*Config, error) {
	return load(path, nil)
}

func load(path string, environ map[string]string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := decodeYAML(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Unknown keys are rejected so a typo does not silently fall back to a
// default.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// FieldError reports one invalid setting.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalid }

// Validate checks every section and joins the failures.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, reason string) {
		errs = append(errs, &FieldError{Field: field, Reason: reason})
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		add("server.addr", "must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		add("server.shutdown_timeout", "must be positive")
	}

	switch c.Live.Codec {
	case "json", "msgpack", "phoenix":
	default:
		add("live.codec", fmt.Sprintf("unknown codec %q", c.Live.Codec))
	}
	if c.Live.PingInterval <= 0 {
		add("live.ping_interval", "must be positive")
	}
	if c.Live.ReadTimeout <= c.Live.PingInterval {
		add("live.read_timeout", "must be longer than live.ping_interval")
	}
	if c.Live.MaxSessions <= 0 {
		add("live.max_sessions", "must be positive")
	}
	if c.Live.MaxMessageSize <= 0 {
		add("live.max_message_size", "must be positive")
	}

	if c.Live.EventRate < 0 {
		add("live.event_rate", "must not be negative")
	}
	if c.Live.EventRate > 0 && c.Live.EventBurst < 1 {
		add("live.event_burst", "must be at least 1 when live.event_rate is set")
	}
	if c.Live.MaxConnsPerIP < 0 {
		add("live.max_conns_per_ip", "must not be negative")
	}

	if c.Login.Delay < 0 {
		add("login.delay", "must not be negative")
	}
	if !strings.HasPrefix(c.Login.DashboardPath, "/") {
		add("login.dashboard_path", "must be an absolute path")
	}

	if c.I18n.DefaultLocale == "" {
		add("i18n.default_locale", "must not be empty")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		add("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
	}

	return errors.Join(errs...)
}
