// Package config loads controller and quantity settings from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/bjaus/gate"
	"github.com/bjaus/gate/quantity"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config represents the top-level configuration.
type Config struct {
	Retry    RetryConfig    `yaml:"retry"`
	Quantity QuantityConfig `yaml:"quantity"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// RetryConfig holds retry controller settings.
type RetryConfig struct {
	Name              string        `yaml:"name"`
	MaxAttempts       int           `yaml:"max_attempts"`
	Cooldown          time.Duration `yaml:"cooldown"`           // base cooldown, 0 = none
	Strategy          string        `yaml:"strategy"`           // immediate, constant, linear, exponential
	BackoffMultiplier float64       `yaml:"backoff_multiplier"` // exponential only
}

// QuantityConfig holds quantity stepper settings. Unset pointers keep the
// stepper defaults.
type QuantityConfig struct {
	Min          *float64        `yaml:"min"`
	Max          *float64        `yaml:"max"`
	Precision    *int            `yaml:"precision"`
	Step         float64         `yaml:"step"`
	SmartStep    bool            `yaml:"smart_step"`
	Bands        []quantity.Band `yaml:"bands"` // empty = default bands
	HoldDelay    time.Duration   `yaml:"hold_delay"`
	HoldInterval time.Duration   `yaml:"hold_interval"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// MetricsConfig holds the metrics endpoint settings.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty = no endpoint
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Retry.Name == "" {
		c.Retry.Name = "default"
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = gate.DefaultMaxAttempts
	}
	if c.Retry.Strategy == "" {
		c.Retry.Strategy = gate.StrategyExponential.String()
	}
	if c.Retry.BackoffMultiplier == 0 {
		c.Retry.BackoffMultiplier = gate.DefaultMultiplier
	}
	if c.Quantity.Step == 0 {
		c.Quantity.Step = quantity.DefaultStep
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: retry.max_attempts must be positive, got %d", ErrInvalid, c.Retry.MaxAttempts)
	}
	if c.Retry.Cooldown < 0 {
		return fmt.Errorf("%w: retry.cooldown must not be negative, got %v", ErrInvalid, c.Retry.Cooldown)
	}
	if _, err := gate.ParseStrategy(c.Retry.Strategy); err != nil {
		return fmt.Errorf("%w: retry.strategy: %w", ErrInvalid, err)
	}
	if !(c.Retry.BackoffMultiplier > 0) || math.IsInf(c.Retry.BackoffMultiplier, 0) {
		return fmt.Errorf("%w: retry.backoff_multiplier must be positive, got %v", ErrInvalid, c.Retry.BackoffMultiplier)
	}
	if c.Quantity.HoldDelay < 0 || c.Quantity.HoldInterval < 0 {
		return fmt.Errorf("%w: quantity hold timings must not be negative", ErrInvalid)
	}
	if _, err := c.Quantity.Stepper(); err != nil {
		return fmt.Errorf("%w: quantity: %w", ErrInvalid, err)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalid, err)
	}
	return nil
}

// Options converts the retry settings into controller options.
func (r RetryConfig) Options() ([]gate.Option, error) {
	strategy, err := gate.ParseStrategy(r.Strategy)
	if err != nil {
		return nil, err
	}
	return []gate.Option{
		gate.WithName(r.Name),
		gate.WithMaxAttempts(r.MaxAttempts),
		gate.WithStrategy(strategy),
		gate.WithCooldown(r.Cooldown),
		gate.WithMultiplier(r.BackoffMultiplier),
	}, nil
}

// Stepper builds the quantity stepper these settings describe.
func (q QuantityConfig) Stepper() (*quantity.Stepper, error) {
	var opts []quantity.Option

	if q.Min != nil || q.Max != nil {
		lo, hi := 0.0, math.Inf(1)
		if q.Min != nil {
			lo = *q.Min
		}
		if q.Max != nil {
			hi = *q.Max
		}
		opts = append(opts, quantity.WithRange(lo, hi))
	}
	if q.Precision != nil {
		opts = append(opts, quantity.WithPrecision(*q.Precision))
	}
	if q.Step != 0 {
		opts = append(opts, quantity.WithStep(q.Step))
	}
	if q.SmartStep {
		opts = append(opts, quantity.WithSmartStep(q.Bands...))
	}
	return quantity.New(opts...)
}

// InputOptions returns the press-and-hold options for a quantity input.
func (q QuantityConfig) InputOptions() []quantity.InputOption {
	if q.HoldDelay == 0 && q.HoldInterval == 0 {
		return nil
	}
	return []quantity.InputOption{quantity.WithHold(q.HoldDelay, q.HoldInterval)}
}

// SlogLevel parses Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
