// Package config holds the client settings. Settings are loaded from a JSON
// file so a deployment can point the client at its own server and assets.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"time"
)

// ErrInvalid is returned (wrapped) by Validate when a setting is unusable.
var ErrInvalid = errors.New("invalid config")

// Config holds all client settings
type Config struct {
	ServerURL    string  `json:"server_url"`     // WebSocket endpoint
	Username     string  `json:"username"`       // Identity sent with join_game (empty = generated guest name)
	AssetBaseURL string  `json:"asset_base_url"` // Base for relative avatar frame refs
	Background   string  `json:"background"`     // World background image ref
	WorldSize    float64 `json:"world_size"`     // World edge length in logical units

	Window      WindowConfig      `json:"window"`
	Input       InputConfig       `json:"input"`
	Interaction InteractionConfig `json:"interaction"`
	Particles   ParticleConfig    `json:"particles"`
	Network     NetworkConfig     `json:"network"`
	Assets      AssetConfig       `json:"assets"`
	Log         LogConfig         `json:"log"`
}

// WindowConfig defines the initial window
type WindowConfig struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
}

// InputConfig defines continuous movement timing
type InputConfig struct {
	DebounceMS       int `json:"debounce_ms"`        // Delay before held keys start repeating
	RepeatIntervalMS int `json:"repeat_interval_ms"` // Interval between repeated move commands
}

// InteractionConfig defines pointer hit-testing and follow behaviour
type InteractionConfig struct {
	Radius           float64 `json:"radius"`             // Hover/follow radius in world units
	FollowIntervalMS int     `json:"follow_interval_ms"` // How often follow steers toward its target
}

// ParticleConfig defines movement trail particles
type ParticleConfig struct {
	Lifetime int     `json:"lifetime"` // Ticks a particle lives
	Speed    float64 `json:"speed"`    // Max velocity per axis, units per tick
}

// NetworkConfig defines transport tuning
type NetworkConfig struct {
	PingIntervalMS       int     `json:"ping_interval_ms"`
	WriteTimeoutMS       int     `json:"write_timeout_ms"`
	SendBuffer           int     `json:"send_buffer"`             // Outbound frames buffered before dropping
	MaxCommandsPerSecond float64 `json:"max_commands_per_second"` // Move command cap, 0 = unlimited
}

// AssetConfig defines image loading
type AssetConfig struct {
	MaxConcurrentLoads int `json:"max_concurrent_loads"`
	TimeoutMS          int `json:"timeout_ms"`
}

// LogConfig defines the log sink
type LogConfig struct {
	File       string `json:"file"`   // Rotating log file ("" = no file)
	Level      string `json:"level"`  // debug, info, warn, error
	Format     string `json:"format"` // console or json
	Console    bool   `json:"console"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// Default returns the settings used when no config file is present
func Default() *Config {
	return &Config{
		ServerURL:    "ws://localhost:8080/ws",
		AssetBaseURL: "http://localhost:8080/",
		Background:   "assets/world.png",
		WorldSize:    2048,
		Window: WindowConfig{
			Width:  1280,
			Height: 800,
			Title:  "Plaza",
		},
		Input: InputConfig{
			DebounceMS:       150,
			RepeatIntervalMS: 100,
		},
		Interaction: InteractionConfig{
			Radius:           50,
			FollowIntervalMS: 100,
		},
		Particles: ParticleConfig{
			Lifetime: 30,
			Speed:    0.6,
		},
		Network: NetworkConfig{
			PingIntervalMS: 30000,
			WriteTimeoutMS: 5000,
			SendBuffer:     64,
		},
		Assets: AssetConfig{
			MaxConcurrentLoads: 4,
			TimeoutMS:          10000,
		},
		Log: LogConfig{
			File:       "plaza.log",
			Level:      "info",
			Format:     "console",
			Console:    true,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Load loads config from a JSON file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings the client cannot run without
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("%w: server_url: %v", ErrInvalid, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%w: server_url must use ws or wss, got %q", ErrInvalid, c.ServerURL)
	}
	if c.WorldSize <= 0 {
		return fmt.Errorf("%w: world_size must be positive", ErrInvalid)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive", ErrInvalid)
	}
	if c.Input.DebounceMS < 0 || c.Input.RepeatIntervalMS <= 0 {
		return fmt.Errorf("%w: input timing out of range", ErrInvalid)
	}
	if c.Interaction.Radius <= 0 {
		return fmt.Errorf("%w: interaction radius must be positive", ErrInvalid)
	}
	if c.Network.MaxCommandsPerSecond < 0 {
		return fmt.Errorf("%w: max_commands_per_second cannot be negative", ErrInvalid)
	}
	return nil
}

// Identity returns the username to join with, generating a guest name when
// none is configured.
func (c *Config) Identity(rng *rand.Rand) string {
	if c.Username != "" {
		return c.Username
	}
	return fmt.Sprintf("guest-%04d", rng.Intn(10000))
}

// Debounce returns the held-key delay
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Input.DebounceMS) * time.Millisecond
}

// RepeatInterval returns the held-key repeat interval
func (c *Config) RepeatInterval() time.Duration {
	return time.Duration(c.Input.RepeatIntervalMS) * time.Millisecond
}

// FollowInterval returns how often follow steering runs
func (c *Config) FollowInterval() time.Duration {
	return time.Duration(c.Interaction.FollowIntervalMS) * time.Millisecond
}

// PingInterval returns the keepalive period
func (c *Config) PingInterval() time.Duration {
	return time.Duration(c.Network.PingIntervalMS) * time.Millisecond
}

// WriteTimeout returns the per-frame write deadline
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Network.WriteTimeoutMS) * time.Millisecond
}

// AssetTimeout returns the per-request asset fetch timeout
func (c *Config) AssetTimeout() time.Duration {
	return time.Duration(c.Assets.TimeoutMS) * time.Millisecond
}
