package config

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.WorldSize != 2048 {
		t.Errorf("Expected world size 2048, got %v", cfg.WorldSize)
	}
	if cfg.Interaction.Radius != 50 {
		t.Errorf("Expected radius 50, got %v", cfg.Interaction.Radius)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plaza.json")
	data := `{
		"server_url": "wss://plaza.example/ws",
		"username": "alice",
		"input": {"repeat_interval_ms": 80}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ServerURL != "wss://plaza.example/ws" {
		t.Errorf("Expected server url override, got '%s'", cfg.ServerURL)
	}
	if cfg.RepeatInterval() != 80*time.Millisecond {
		t.Errorf("Expected repeat 80ms, got %v", cfg.RepeatInterval())
	}
	if cfg.Debounce() != 150*time.Millisecond {
		t.Errorf("Expected default debounce 150ms, got %v", cfg.Debounce())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"http scheme", func(c *Config) { c.ServerURL = "http://localhost/ws" }},
		{"zero world", func(c *Config) { c.WorldSize = 0 }},
		{"zero repeat", func(c *Config) { c.Input.RepeatIntervalMS = 0 }},
		{"zero radius", func(c *Config) { c.Interaction.Radius = 0 }},
		{"negative rate", func(c *Config) { c.Network.MaxCommandsPerSecond = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestIdentity(t *testing.T) {
	cfg := Default()
	rng := rand.New(rand.NewSource(1))

	guest := cfg.Identity(rng)
	if !strings.HasPrefix(guest, "guest-") {
		t.Errorf("Expected guest name, got '%s'", guest)
	}

	cfg.Username = "bob"
	if got := cfg.Identity(rng); got != "bob" {
		t.Errorf("Expected 'bob', got '%s'", got)
	}
}
