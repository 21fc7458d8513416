package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Server.Port != "8000" {
		t.Fatalf("default port = %q, want 8000", cfg.Server.Port)
	}
	if cfg.Database.Path != "./hullzero.db" {
		t.Fatalf("default database path = %q", cfg.Database.Path)
	}
	if cfg.Decision.PhysicalWeight != 0.25 || cfg.Decision.MLWeight != 0.75 {
		t.Fatalf("default blend weights = %f/%f", cfg.Decision.PhysicalWeight, cfg.Decision.MLWeight)
	}
	if cfg.Decision.HorizonDays != 90 || cfg.Decision.PlanningHorizonDays != 180 {
		t.Fatalf("default horizons = %d/%d", cfg.Decision.HorizonDays, cfg.Decision.PlanningHorizonDays)
	}
	if len(cfg.Decision.IntervalList) != 5 || cfg.Decision.IntervalList[0] != 7 {
		t.Fatalf("default interval list = %v", cfg.Decision.IntervalList)
	}
	if !cfg.Monitor.Enabled || cfg.Monitor.Interval != 6*time.Hour {
		t.Fatalf("default monitor settings = %v/%v", cfg.Monitor.Enabled, cfg.Monitor.Interval)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hullzero.yaml")
	body := []byte("server:\n  port: \"9100\"\ndecision:\n  fuel_price: 4.2\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9100" {
		t.Fatalf("port override ignored: %q", cfg.Server.Port)
	}
	if cfg.Decision.FuelPrice != 4.2 {
		t.Fatalf("fuel price override ignored: %f", cfg.Decision.FuelPrice)
	}
	// Untouched keys keep their defaults.
	if cfg.Decision.CleaningDays != 3 {
		t.Fatalf("default cleaning days lost: %d", cfg.Decision.CleaningDays)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("an explicitly named missing config file must fail")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("load defaults: %v", err)
		}
		return cfg
	}

	cfg := base()
	cfg.Decision.PhysicalWeight = 0.5
	if err := validate(cfg); err == nil {
		t.Fatal("blend weights not summing to 1 must fail")
	}

	cfg = base()
	cfg.Decision.FuelPrice = 0
	if err := validate(cfg); err == nil {
		t.Fatal("non-positive fuel price must fail")
	}

	cfg = base()
	cfg.Decision.HorizonDays = 0
	if err := validate(cfg); err == nil {
		t.Fatal("zero horizon must fail")
	}

	cfg = base()
	cfg.Monitor.Interval = 30 * time.Second
	if err := validate(cfg); err == nil {
		t.Fatal("sub-minute monitor interval must fail")
	}

	cfg = base()
	cfg.Monitor.Enabled = false
	cfg.Monitor.Interval = 30 * time.Second
	if err := validate(cfg); err != nil {
		t.Fatalf("the interval floor only applies when the monitor is on: %v", err)
	}
}
