package config

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/gate"
	"github.com/bjaus/gate/quantity"
)

const sample = `
retry:
  name: reload
  max_attempts: 4
  cooldown: 2s
  strategy: linear
quantity:
  min: 1
  max: 50
  precision: 2
  smart_step: true
  bands:
    - threshold: .inf
      step: 1
    - threshold: 10
      step: 0.25
  hold_delay: 300ms
  hold_interval: 50ms
logging:
  level: debug
metrics:
  addr: ":9090"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "reload", cfg.Retry.Name)
	assert.Equal(t, 4, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.Cooldown)
	assert.Equal(t, "linear", cfg.Retry.Strategy)
	assert.Equal(t, gate.DefaultMultiplier, cfg.Retry.BackoffMultiplier)

	require.NotNil(t, cfg.Quantity.Min)
	assert.Equal(t, 1.0, *cfg.Quantity.Min)
	assert.True(t, math.IsInf(cfg.Quantity.Bands[0].Threshold, 1))
	assert.Equal(t, 300*time.Millisecond, cfg.Quantity.HoldDelay)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)

	level, err := cfg.Logging.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParse_defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, gate.DefaultMaxAttempts, cfg.Retry.MaxAttempts)
	assert.Equal(t, "exponential", cfg.Retry.Strategy)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestParse_invalid(t *testing.T) {
	cases := map[string]string{
		"strategy":   "retry:\n  strategy: fibonacci\n",
		"attempts":   "retry:\n  max_attempts: -1\n",
		"cooldown":   "retry:\n  cooldown: -1s\n",
		"multiplier": "retry:\n  backoff_multiplier: -0.5\n",
		"range":      "quantity:\n  min: 10\n  max: 1\n",
		"precision":  "quantity:\n  precision: 20\n",
		"band step":  "quantity:\n  smart_step: true\n  bands:\n    - threshold: 10\n      step: 0\n",
		"hold":       "quantity:\n  hold_delay: -1ms\n",
		"level":      "logging:\n  level: loud\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte("retry:\n  max_attemps: 3\n"))
		assert.Error(t, err)
	})
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_GATE_COOLDOWN", "5s")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retry:\n  cooldown: ${TEST_GATE_COOLDOWN}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Retry.Cooldown)
}

func TestLoad_missingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRetryConfig_Options(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	opts, err := cfg.Retry.Options()
	require.NoError(t, err)

	c := gate.New(func(context.Context) error { return nil }, opts...)
	assert.Equal(t, "reload", c.Name())
	assert.Equal(t, 4, c.State().MaxAttempts)
	assert.Equal(t, 6*time.Second, c.Cooldown(3))
}

func TestQuantityConfig_Stepper(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	s, err := cfg.Quantity.Stepper()
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.Min())
	assert.Equal(t, 50.0, s.Max())
	assert.Equal(t, 0.25, s.ComputeStep(5))
	assert.Equal(t, 1.0, s.ComputeStep(20))

	got, _ := s.Increment(quantity.Num(5)).Float()
	assert.Equal(t, 5.25, got)

	assert.Len(t, cfg.Quantity.InputOptions(), 1)
	assert.Nil(t, Default().Quantity.InputOptions())
}

func TestQuantityConfig_defaultBands(t *testing.T) {
	q := QuantityConfig{SmartStep: true}
	s, err := q.Stepper()
	require.NoError(t, err)
	assert.Equal(t, 0.5, s.ComputeStep(50))
}

func TestParse_shrinkingMultiplier(t *testing.T) {
	cfg, err := Parse([]byte("retry:\n  cooldown: 8s\n  backoff_multiplier: 0.5\n"))
	require.NoError(t, err)

	opts, err := cfg.Retry.Options()
	require.NoError(t, err)

	c := gate.New(func(context.Context) error { return nil }, opts...)
	assert.Equal(t, 4*time.Second, c.Cooldown(2))
	assert.Equal(t, 2*time.Second, c.Cooldown(3))
}
