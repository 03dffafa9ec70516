package config

import (
	"fmt"
	"os"
	"time"

	yaml "github.com/goccy/go-yaml"

	"github.com/me/schedq/internal/scheduler"
)

// ServerConfig holds configuration for the schedq server. Values come
// from defaults, then an optional YAML file, then command-line flags.
type ServerConfig struct {
	Addr      string `yaml:"addr"`       // listen address (default ":8080")
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json
	DBPath    string `yaml:"db_path"`    // sqlite archive path, ":memory:" for testing

	Quantum     int64 `yaml:"quantum"`      // logical ticks per dispatch turn
	MinPriority int   `yaml:"min_priority"` // smaller value = higher precedence
	MaxPriority int   `yaml:"max_priority"`
	TickMS      int   `yaml:"tick_ms"` // wall ms per logical tick, 0 = free-running
	PollMS      int   `yaml:"poll_ms"` // idle re-check interval
	EventBuffer int   `yaml:"event_buffer"`
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        ":8080",
		LogLevel:    "info",
		LogFormat:   "text",
		Quantum:     2,
		MinPriority: 1,
		MaxPriority: 10,
		TickMS:      100,
		PollMS:      100,
		EventBuffer: 256,
	}
}

// Load reads a YAML file over the defaults; an empty path yields
// defaults only. Out-of-range values are clamped back to defaults.
func Load(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// sanity clamps
	if cfg.Quantum <= 0 {
		cfg.Quantum = 2
	}
	if cfg.MaxPriority < cfg.MinPriority {
		cfg.MinPriority, cfg.MaxPriority = 1, 10
	}
	if cfg.TickMS < 0 {
		cfg.TickMS = 0
	}
	if cfg.PollMS <= 0 {
		cfg.PollMS = 100
	}

	return cfg, nil
}

// SchedulerConfig translates the server settings into engine knobs.
func (c ServerConfig) SchedulerConfig() scheduler.Config {
	return scheduler.Config{
		Quantum:      c.Quantum,
		MinPriority:  c.MinPriority,
		MaxPriority:  c.MaxPriority,
		TickInterval: time.Duration(c.TickMS) * time.Millisecond,
		PollInterval: time.Duration(c.PollMS) * time.Millisecond,
		EventBuffer:  c.EventBuffer,
	}
}
