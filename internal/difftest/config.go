package difftest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config controls a differential test session.
//
// Thread Safety: Safe to read concurrently. Not safe to modify while a
// Harness is running with it.
type Config struct {
	// Runs is the number of expressions to generate. Odd runs are evaluated
	// as generated; even runs are corrupted first.
	Runs int `json:"runs" yaml:"runs"`

	// MinCycles and MaxCycles bound the number of expression machine cycles
	// used to generate each expression.
	MinCycles int `json:"min_cycles" yaml:"min_cycles"`
	MaxCycles int `json:"max_cycles" yaml:"max_cycles"`

	// Timeout bounds each calculator evaluation.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Workers is the number of runs evaluated concurrently.
	Workers int `json:"workers" yaml:"workers"`

	// Seed selects the run set. Run i draws from a source seeded with
	// (Seed, i), so results do not depend on Workers.
	Seed uint64 `json:"seed" yaml:"seed"`

	// CorruptRatio is the share of characters replaced in corrupted runs.
	CorruptRatio float64 `json:"corrupt_ratio" yaml:"corrupt_ratio"`

	// Tolerance is the relative error allowed between the two engines.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`

	// LogLevel is the slog level name used by the command line.
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Runs:         100,
		MinCycles:    25,
		MaxCycles:    100,
		Timeout:      25 * time.Second,
		Workers:      runtime.GOMAXPROCS(0),
		Seed:         0,
		CorruptRatio: 0.15,
		Tolerance:    1e-9,
		LogLevel:     "info",
	}
}

// LoadConfig loads configuration with layered overrides.
//
// Description:
//
//	Starts from DefaultConfig, applies the YAML or JSON file at path if it
//	exists, then PREFIXCALC_* environment variables, then validates.
//
// Inputs:
//
//	path - Config file path. Empty or missing means defaults only.
//
// Outputs:
//
//	Config - The loaded configuration.
//	error - Non-nil if the file cannot be parsed or the result is invalid.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	loadConfigFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadConfigFromEnv(cfg *Config) {
	envInt("PREFIXCALC_RUNS", &cfg.Runs)
	envInt("PREFIXCALC_MIN_CYCLES", &cfg.MinCycles)
	envInt("PREFIXCALC_MAX_CYCLES", &cfg.MaxCycles)
	envInt("PREFIXCALC_WORKERS", &cfg.Workers)
	if v := os.Getenv("PREFIXCALC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("PREFIXCALC_SEED"); v != "" {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Seed = u
		}
	}
	envFloat("PREFIXCALC_CORRUPT_RATIO", &cfg.CorruptRatio)
	envFloat("PREFIXCALC_TOLERANCE", &cfg.Tolerance)
	if v := os.Getenv("PREFIXCALC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func envInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func envFloat(name string, dst *float64) {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// Validate checks that the configuration describes a runnable session.
func (c Config) Validate() error {
	var errs []error
	if c.Runs < 1 {
		errs = append(errs, fmt.Errorf("runs must be at least 1, got %d", c.Runs))
	}
	if c.MinCycles < 0 {
		errs = append(errs, fmt.Errorf("min_cycles must be non-negative, got %d", c.MinCycles))
	}
	if c.MaxCycles < c.MinCycles {
		errs = append(errs, fmt.Errorf("max_cycles %d is less than min_cycles %d", c.MaxCycles, c.MinCycles))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %v", c.Timeout))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if !(c.CorruptRatio > 0 && c.CorruptRatio <= 1) {
		errs = append(errs, fmt.Errorf("corrupt_ratio must be in (0, 1], got %v", c.CorruptRatio))
	}
	if !(c.Tolerance >= 0) {
		errs = append(errs, fmt.Errorf("tolerance must be non-negative, got %v", c.Tolerance))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel. An empty LogLevel is info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
