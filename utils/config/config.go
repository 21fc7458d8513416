// Package config handles configuration for HullZero, loaded from an
// optional config file and HULLZERO_-prefixed environment variables.
package config

import (
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete HullZero configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Decision DecisionConfig `mapstructure:"decision"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	Mode       string `mapstructure:"mode"` // "debug" or "release"
	CORSOrigin string `mapstructure:"cors_origin"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DecisionConfig contains the decision-pipeline knobs.
type DecisionConfig struct {
	FuelPrice                 float64 `mapstructure:"fuel_price"` // currency/kg
	BaseCleanCost             float64 `mapstructure:"base_clean_cost"`
	CostPerMM                 float64 `mapstructure:"cost_per_mm"`
	DailyDowntimeCost         float64 `mapstructure:"daily_downtime_cost"`
	CleaningDays              int     `mapstructure:"cleaning_days"`
	HorizonDays               int     `mapstructure:"horizon_days"`
	PlanningHorizonDays       int     `mapstructure:"planning_horizon_days"`
	IntervalList              []int   `mapstructure:"interval_list"`
	CandidateOffsets          []int   `mapstructure:"candidate_offsets"`
	PhysicalWeight            float64 `mapstructure:"physical_weight"`
	MLWeight                  float64 `mapstructure:"ml_weight"`
	MinInspectionIntervalDays int     `mapstructure:"min_inspection_interval_days"`
}

// MonitorConfig contains the fleet-monitor settings.
type MonitorConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads the configuration with sensible defaults. A config file is
// optional; environment variables use the HULLZERO_ prefix with
// underscores, e.g. HULLZERO_DECISION_FUEL_PRICE.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors_origin", "http://localhost:5173")
	v.SetDefault("database.path", "./hullzero.db")
	v.SetDefault("decision.fuel_price", 3.5)
	v.SetDefault("decision.base_clean_cost", 250000.0)
	v.SetDefault("decision.cost_per_mm", 15000.0)
	v.SetDefault("decision.daily_downtime_cost", 50000.0)
	v.SetDefault("decision.cleaning_days", 3)
	v.SetDefault("decision.horizon_days", 90)
	v.SetDefault("decision.planning_horizon_days", 180)
	v.SetDefault("decision.interval_list", []int{7, 14, 30, 60, 90})
	v.SetDefault("decision.candidate_offsets", []int{7, 14, 21, 30, 45, 60, 90})
	v.SetDefault("decision.physical_weight", 0.25)
	v.SetDefault("decision.ml_weight", 0.75)
	v.SetDefault("decision.min_inspection_interval_days", 90)
	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.interval", 6*time.Hour)

	v.SetEnvPrefix("HULLZERO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		log.Printf("Configuration validation failed: %v", err)
		return nil, err
	}

	log.Printf("Configuration loaded:")
	log.Printf("  Server: %s:%s (mode: %s)", cfg.Server.Host, cfg.Server.Port, cfg.Server.Mode)
	log.Printf("  Database: %s", cfg.Database.Path)
	log.Printf("  Decision: fuel_price=%.2f, weights=%.2f/%.2f, horizon=%dd",
		cfg.Decision.FuelPrice, cfg.Decision.PhysicalWeight, cfg.Decision.MLWeight, cfg.Decision.HorizonDays)
	log.Printf("  Monitor: enabled=%v, interval=%v", cfg.Monitor.Enabled, cfg.Monitor.Interval)

	return cfg, nil
}

// validate checks if the configuration is valid.
func validate(cfg *Config) error {
	if math.Abs(cfg.Decision.PhysicalWeight+cfg.Decision.MLWeight-1) > 1e-9 {
		return errors.New("physical_weight and ml_weight must sum to 1")
	}
	if cfg.Decision.FuelPrice <= 0 {
		return errors.New("fuel_price must be positive")
	}
	if cfg.Decision.HorizonDays < 1 || cfg.Decision.PlanningHorizonDays < 1 {
		return errors.New("horizons must be at least 1 day")
	}
	if cfg.Decision.CleaningDays < 1 {
		return errors.New("cleaning_days must be at least 1")
	}
	if cfg.Decision.MinInspectionIntervalDays < 1 {
		return errors.New("min_inspection_interval_days must be at least 1")
	}
	if cfg.Monitor.Enabled && cfg.Monitor.Interval < time.Minute {
		return errors.New("monitor interval must be at least 1 minute")
	}
	return nil
}
