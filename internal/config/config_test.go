package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Store.Capacity != 512 {
		t.Errorf("Store.Capacity = %d, want 512", cfg.Store.Capacity)
	}
	if !cfg.Rate.Enabled || cfg.Rate.RequestsPerSecond != 20 {
		t.Errorf("Rate = %+v, want enabled at 20 rps", cfg.Rate)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Server.Addr() != ":8080" {
		t.Errorf("Addr() = %q, want :8080", cfg.Server.Addr())
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countrystore.toml")
	content := `
[server]
port = 9090

[store]
capacity = 1024
data-file = "countries.csv"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("env must override file: Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Store.Capacity != 1024 || cfg.Store.DataFile != "countries.csv" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unset file keys keep defaults: ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad port", map[string]string{"SERVER_PORT": "70000"}, "SERVER_PORT"},
		{"bad capacity", map[string]string{"STORE_CAPACITY": "0"}, "STORE_CAPACITY"},
		{"capacity not a power of two", map[string]string{"STORE_CAPACITY": "12"}, "power of two"},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"bad format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
		{"bad duration", map[string]string{"SERVER_READ_TIMEOUT": "soon"}, "invalid duration"},
		{"bad rate", map[string]string{"RATE_LIMIT_RPS": "-1"}, "RATE_LIMIT_RPS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigFile, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
