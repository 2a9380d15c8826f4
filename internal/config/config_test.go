package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Server.Port != 8080 {
			t.Errorf("Load() port = %v, want 8080", cfg.Server.Port)
		}
		if cfg.Server.RequestTimeout != 30*time.Second {
			t.Errorf("Load() request timeout = %v, want 30s", cfg.Server.RequestTimeout)
		}
		if cfg.Flow.AutoAdvanceDelay != 500*time.Millisecond {
			t.Errorf("Load() auto advance delay = %v, want 500ms", cfg.Flow.AutoAdvanceDelay)
		}
		if cfg.Storage.Type != "sqlite" || cfg.Storage.SQLite.Path != "./data/salon.db" {
			t.Errorf("Load() storage = %+v", cfg.Storage)
		}
		if cfg.Profile.FallbackLabel != "Non spécifié" {
			t.Errorf("Load() fallback label = %q", cfg.Profile.FallbackLabel)
		}
		if !cfg.Catalog.Watch || !cfg.Telemetry.Enabled {
			t.Errorf("Load() catalog.watch / telemetry.enabled should default to true")
		}
		if cfg.Mailjet.Configured() {
			t.Errorf("Load() mailjet should not be configured by default")
		}
	})

	t.Run("env var port override", func(t *testing.T) {
		t.Setenv("SALON_SERVER__PORT", "9000")
		t.Setenv("SALON_FLOW__AUTO_ADVANCE_DELAY", "1s")
		t.Setenv("SALON_STORAGE__TYPE", "memory")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Server.Port != 9000 {
			t.Errorf("Load() port = %v, want 9000", cfg.Server.Port)
		}
		if cfg.Flow.AutoAdvanceDelay != time.Second {
			t.Errorf("Load() auto advance delay = %v, want 1s", cfg.Flow.AutoAdvanceDelay)
		}
		if cfg.Storage.Type != "memory" {
			t.Errorf("Load() storage type = %q, want memory", cfg.Storage.Type)
		}
	})
}

func TestLoad_File(t *testing.T) {
	t.Setenv("MJ_SECRET", "s3cret")
	t.Setenv("SALON_SERVER__PORT", "7070")

	path := filepath.Join(t.TempDir(), "salon.yaml")
	content := `
server:
  port: 9090
flow:
  purge_hidden_answers: true
catalog:
  override_file: catalogs.yaml
  watch: false
mailjet:
  api_key: key
  api_secret: ${MJ_SECRET}
  list_id: "42"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("env should override file: port = %d", cfg.Server.Port)
	}
	if !cfg.Flow.PurgeHiddenAnswers {
		t.Error("purge_hidden_answers not loaded")
	}
	if cfg.Catalog.OverrideFile != "catalogs.yaml" || cfg.Catalog.Watch {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Mailjet.APISecret != "s3cret" || !cfg.Mailjet.Configured() {
		t.Errorf("mailjet = %+v", cfg.Mailjet)
	}
	if cfg.Mailjet.BaseURL != "https://api.mailjet.com" {
		t.Errorf("mailjet base url = %q", cfg.Mailjet.BaseURL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() with missing explicit file should fail")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"storage", func(c *Config) { c.Storage.Type = "postgres" }, "unsupported storage type"},
		{"sqlite path", func(c *Config) { c.Storage.SQLite.Path = "" }, "storage.sqlite.path"},
		{"delay", func(c *Config) { c.Flow.AutoAdvanceDelay = -time.Second }, "auto_advance_delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Server:  ServerConfig{Port: 8080, RequestTimeout: time.Second},
				Storage: StorageConfig{Type: "sqlite", SQLite: SQLiteConfig{Path: "x.db"}},
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple substitution",
			input: "${TEST_VAR}",
			want:  "test-value",
		},
		{
			name:  "substitution in string",
			input: "prefix-${TEST_VAR}-suffix",
			want:  "prefix-test-value-suffix",
		},
		{
			name:  "no substitution",
			input: "plain-string",
			want:  "plain-string",
		},
		{
			name:  "undefined var",
			input: "${UNDEFINED_VAR}",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := substituteEnvVars(tt.input)
			if got != tt.want {
				t.Errorf("substituteEnvVars() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (LogConfig{Level: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
