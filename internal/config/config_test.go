package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Deck.TimeLimit != 30*time.Minute {
		t.Errorf("TimeLimit = %v, want 30m", cfg.Deck.TimeLimit)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  host: 127.0.0.1
  port: "9000"
storage:
  backend: memory
deck:
  title: Lightning Talk
  time_limit: 5m
session:
  cookie_name: deck
  connect_timeout: 10s
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Server = ServerConfig{Host: "127.0.0.1", Port: "9000"}
	want.Storage.Backend = BackendMemory
	want.Deck = DeckConfig{Title: "Lightning Talk", TimeLimit: 5 * time.Minute}
	want.Session = SessionConfig{CookieName: "deck", ConnectTimeout: 10 * time.Second}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SERVER_PORT":     "3000",
		"STORAGE_BACKEND": "file",
		"DATA_DIR":        "/tmp/deck",
		"TIME_LIMIT":      "600",
		"TLS_ENABLED":     "false",
	}
	cfg := DefaultConfig()
	if err := cfg.applyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "3000" || cfg.Storage.Backend != BackendFile || cfg.Storage.DataDir != "/tmp/deck" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Deck.TimeLimit != 10*time.Minute {
		t.Errorf("TimeLimit = %v, want 10m", cfg.Deck.TimeLimit)
	}

	env["TIME_LIMIT"] = "90s"
	if err := cfg.applyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.Deck.TimeLimit != 90*time.Second {
		t.Errorf("TimeLimit = %v, want 90s", cfg.Deck.TimeLimit)
	}

	env["TLS_ENABLED"] = "maybe"
	if err := cfg.applyEnv(func(k string) string { return env[k] }); err == nil {
		t.Error("applyEnv() accepted TLS_ENABLED=maybe")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }},
		{"tls without cert", func(c *Config) { c.TLS.Enabled = true }},
		{"negative time limit", func(c *Config) { c.Deck.TimeLimit = -time.Second }},
		{"no connect timeout", func(c *Config) { c.Session.ConnectTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted an invalid config")
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}
