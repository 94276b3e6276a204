// Package config defines analysis configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/okian/rigdiag/internal/domain/diagnosis"
	"github.com/okian/rigdiag/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// WorkerCount sets the number of channel analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// ZeroIsMissing enables the recorder's no-data marker (an exact 0) on
	// the checks that declare it. False keeps every zero as a reading.
	ZeroIsMissing bool `koanf:"zero_is_missing"`

	// ChangeThreshold is the driving step (radians) counted as intentional motion.
	ChangeThreshold float64 `koanf:"change_threshold"`

	// LargeStepThreshold is the per-frame change (radians) counted as a jump.
	LargeStepThreshold float64 `koanf:"large_step_threshold"`

	// FidelityThresholds are the error levels of the precision distribution.
	FidelityThresholds []float64 `koanf:"fidelity_thresholds"`

	// MaxLagFrames bounds the output latency search.
	MaxLagFrames int `koanf:"max_lag_frames"`

	// LogDir and LogPattern locate session logs for --latest.
	LogDir     string `koanf:"log_dir"`
	LogPattern string `koanf:"log_pattern"`

	// Budgets maps categories to the points a diagnosis is worth.
	Budgets map[string]float64 `koanf:"budgets"`

	// DefaultBudget is used for categories without a budget.
	DefaultBudget float64 `koanf:"default_budget"`

	// Weights maps categories to their weight in the overall score.
	Weights map[string]float64 `koanf:"weights"`

	// DefaultWeight is used for categories without a weight.
	DefaultWeight float64 `koanf:"default_weight"`

	// Bands overrides the band edges of a category.
	Bands map[string][]float64 `koanf:"bands"`

	// Metrics names and labels exported series.
	MetricsNamespace string            `koanf:"metrics_namespace"`
	MetricsSubsystem string            `koanf:"metrics_subsystem"`
	MetricsLabels    map[string]string `koanf:"metrics_labels"`

	// MetricsBuckets are the latency histogram buckets in milliseconds.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		WorkerCount:        runtime.NumCPU(),
		QueueSize:          256,
		ZeroIsMissing:      true,
		ChangeThreshold:    0.01,
		LargeStepThreshold: 0.1,
		FidelityThresholds: []float64{0.001, 0.01, 0.1},
		MaxLagFrames:       10,
		LogDir:             "log",
		LogPattern:         "motion-debug-log-*.json",
		Budgets: map[string]float64{
			"fidelity":  20,
			"crosstalk": 15,
		},
		DefaultBudget: 10,
		Weights:       map[string]float64{},
		DefaultWeight: 1,
		Bands:         map[string][]float64{},

		MetricsNamespace: "rigdiag",
		MetricsSubsystem: "analysis",
		MetricsLabels:    map[string]string{},
	}
}

// Validate checks the configuration for values the analysis cannot use.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return invalid("log_level", err.Error())
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return invalid("log_format", fmt.Sprintf("want text or json, got %q", c.LogFormat))
	}
	if c.WorkerCount < 1 {
		return invalid("worker_count", "must be at least 1")
	}
	if c.QueueSize < 1 {
		return invalid("queue_size", "must be at least 1")
	}
	if c.ChangeThreshold <= 0 {
		return invalid("change_threshold", "must be positive")
	}
	if c.LargeStepThreshold <= 0 {
		return invalid("large_step_threshold", "must be positive")
	}
	for _, t := range c.FidelityThresholds {
		if t <= 0 {
			return invalid("fidelity_thresholds", "must be positive")
		}
	}
	if c.MaxLagFrames < 0 {
		return invalid("max_lag_frames", "must not be negative")
	}
	if c.LogPattern == "" {
		return invalid("log_pattern", "must not be empty")
	}
	if _, err := filepath.Match(c.LogPattern, ""); err != nil {
		return invalid("log_pattern", err.Error())
	}
	if c.DefaultBudget <= 0 {
		return invalid("default_budget", "must be positive")
	}
	if c.DefaultWeight < 0 {
		return invalid("default_weight", "must not be negative")
	}
	for _, m := range []struct {
		key    string
		values map[string]float64
	}{{"budgets", c.Budgets}, {"weights", c.Weights}} {
		for cat, v := range m.values {
			if !knownCategory(cat) {
				return invalid(m.key, fmt.Sprintf("unknown category %q", cat))
			}
			if v < 0 {
				return invalid(m.key, fmt.Sprintf("%s must not be negative", cat))
			}
		}
	}
	if c.MetricsNamespace == "" {
		return invalid("metrics_namespace", "must not be empty")
	}
	for i, b := range c.MetricsBuckets {
		if i > 0 && b <= c.MetricsBuckets[i-1] {
			return invalid("metrics_buckets", "must be strictly increasing")
		}
	}
	if _, err := diagnosis.NewClassifier(c.Calibration()); err != nil {
		return invalid("bands", err.Error())
	}
	return nil
}

// Calibration returns the configured band edges.
func (c *Config) Calibration() diagnosis.Calibration {
	cal := make(diagnosis.Calibration, len(c.Bands))
	for cat, edges := range c.Bands {
		cal[diagnosis.Category(cat)] = edges
	}
	return cal
}

// CategoryBudgets returns the budgets keyed by category.
func (c *Config) CategoryBudgets() map[diagnosis.Category]float64 {
	out := make(map[diagnosis.Category]float64, len(c.Budgets))
	for cat, b := range c.Budgets {
		out[diagnosis.Category(cat)] = b
	}
	return out
}

// Weight returns the weight of category cat.
func (c *Config) Weight(cat diagnosis.Category) float64 {
	if w, ok := c.Weights[string(cat)]; ok {
		return w
	}
	return c.DefaultWeight
}

func knownCategory(name string) bool {
	for _, cat := range diagnosis.Categories() {
		if string(cat) == name {
			return true
		}
	}
	return false
}

func invalid(key, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, key, reason)
}
