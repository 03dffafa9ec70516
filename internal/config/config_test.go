package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Quantum != 2 || cfg.MaxPriority != 10 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedq.yml")
	content := "addr: \":9090\"\nquantum: 4\nmin_priority: 0\nmax_priority: 5\ntick_ms: 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.Quantum != 4 {
		t.Errorf("Quantum = %d, want 4", cfg.Quantum)
	}
	if cfg.MinPriority != 0 || cfg.MaxPriority != 5 {
		t.Errorf("priority range = [%d, %d], want [0, 5]", cfg.MinPriority, cfg.MaxPriority)
	}
	if cfg.TickMS != 0 {
		t.Errorf("TickMS = %d, want 0", cfg.TickMS)
	}
	// Untouched fields keep their defaults.
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_ClampsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedq.yml")
	content := "quantum: -1\nmin_priority: 9\nmax_priority: 3\npoll_ms: -5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Quantum != 2 {
		t.Errorf("Quantum = %d, want clamp to 2", cfg.Quantum)
	}
	if cfg.MinPriority != 1 || cfg.MaxPriority != 10 {
		t.Errorf("priority range = [%d, %d], want clamp to [1, 10]", cfg.MinPriority, cfg.MaxPriority)
	}
	if cfg.PollMS != 100 {
		t.Errorf("PollMS = %d, want clamp to 100", cfg.PollMS)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("Load of missing file succeeded, want error")
	}
}

func TestSchedulerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.TickMS = 50
	sc := cfg.SchedulerConfig()
	if sc.Quantum != cfg.Quantum {
		t.Errorf("Quantum = %d, want %d", sc.Quantum, cfg.Quantum)
	}
	if sc.TickInterval != 50*time.Millisecond {
		t.Errorf("TickInterval = %v, want 50ms", sc.TickInterval)
	}
}
