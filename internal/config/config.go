package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultFile is read when no explicit config path is given. It is optional.
const DefaultFile = "config.yaml"

// EnvPrefix prefixes every environment override; "__" separates levels.
const EnvPrefix = "SALON_"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Flow      FlowConfig      `koanf:"flow"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Profile   ProfileConfig   `koanf:"profile"`
	Mailjet   MailjetConfig   `koanf:"mailjet"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Port           int           `koanf:"port"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
}

type StorageConfig struct {
	Type   string       `koanf:"type"` // sqlite, memory
	SQLite SQLiteConfig `koanf:"sqlite"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// FlowConfig tunes diagnostic sessions.
type FlowConfig struct {
	AutoAdvanceDelay   time.Duration `koanf:"auto_advance_delay"`
	PurgeHiddenAnswers bool          `koanf:"purge_hidden_answers"`
	SessionTTL         time.Duration `koanf:"session_ttl"`
}

// CatalogConfig points at an optional YAML file overriding built-in catalogs.
type CatalogConfig struct {
	OverrideFile string `koanf:"override_file"`
	Watch        bool   `koanf:"watch"`
}

type ProfileConfig struct {
	FallbackLabel string `koanf:"fallback_label"`
}

// MailjetConfig configures the newsletter relay. Secrets may use ${VAR}.
type MailjetConfig struct {
	APIKey    string        `koanf:"api_key"`
	APISecret string        `koanf:"api_secret"`
	ListID    string        `koanf:"list_id"`
	BaseURL   string        `koanf:"base_url"`
	Timeout   time.Duration `koanf:"timeout"`
}

// Configured reports whether credentials and a list are present.
func (m MailjetConfig) Configured() bool {
	return m.APIKey != "" && m.APISecret != "" && m.ListID != ""
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// SlogLevel parses Level ("debug", "info", "warn", "error"), defaulting to
// info when it is empty or unknown.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

var defaults = map[string]any{
	"server.port":               8080,
	"server.request_timeout":    "30s",
	"server.allowed_origins":    []string{"*"},
	"storage.type":              "sqlite",
	"storage.sqlite.path":       "./data/salon.db",
	"flow.auto_advance_delay":   "500ms",
	"flow.purge_hidden_answers": false,
	"flow.session_ttl":          "2h",
	"catalog.watch":             true,
	"profile.fallback_label":    "Non spécifié",
	"mailjet.base_url":          "https://api.mailjet.com",
	"mailjet.timeout":           "10s",
	"log.level":                 "info",
	"telemetry.enabled":         true,
	"telemetry.service_name":    "salon-intake",
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads path (or DefaultFile when path is empty), then environment
// overrides, then defaults for anything still unset. A missing DefaultFile
// is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	name := path
	if name == "" {
		name = DefaultFile
	}
	if err := k.Load(file.Provider(name), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if path != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config file %s: %w", name, err)
		}
	}

	// Load environment variables (can override file config)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	cfg.Mailjet.APIKey = substituteEnvVars(cfg.Mailjet.APIKey)
	cfg.Mailjet.APISecret = substituteEnvVars(cfg.Mailjet.APISecret)
	cfg.Mailjet.ListID = substituteEnvVars(cfg.Mailjet.ListID)
	cfg.Storage.SQLite.Path = substituteEnvVars(cfg.Storage.SQLite.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.request_timeout must be positive"))
	}
	switch c.Storage.Type {
	case "memory":
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			errs = append(errs, fmt.Errorf("storage.sqlite.path is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage type %q", c.Storage.Type))
	}
	if c.Flow.AutoAdvanceDelay < 0 {
		errs = append(errs, fmt.Errorf("flow.auto_advance_delay must not be negative"))
	}
	return errors.Join(errs...)
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
