package metrics_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/bjaus/gate"
	"github.com/bjaus/gate/metrics"
	"github.com/bjaus/gate/timer/timertest"
)

func newController(t *testing.T, rec *metrics.Recorder, clock *timertest.Clock, action gate.Func, opts ...gate.Option) *gate.Controller {
	t.Helper()
	base := []gate.Option{
		gate.WithName("reload"),
		gate.WithClock(clock),
		gate.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		rec.Option(),
	}
	c := gate.New(action, append(base, opts...)...)
	t.Cleanup(c.Close)
	return c
}

func TestRecorder_FailureSequence(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	clock := timertest.New()

	c := newController(t, rec, clock, func(context.Context) error { return errors.New("boom") },
		gate.WithMaxAttempts(2),
		gate.WithStrategy(gate.StrategyConstant),
		gate.WithCooldown(2*time.Second),
	)

	assert.Equal(t, gate.Failed, c.Attempt(context.Background()))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.CooldownRemaining.WithLabelValues("reload")))

	clock.Advance(time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.CooldownRemaining.WithLabelValues("reload")))

	clock.Advance(time.Second)
	assert.Equal(t, 0.0, testutil.ToFloat64(rec.CooldownRemaining.WithLabelValues("reload")))

	assert.Equal(t, gate.Exhausted, c.Attempt(context.Background()))
	assert.Equal(t, gate.Rejected, c.Attempt(context.Background()))

	events := func(typ gate.EventType) float64 {
		return testutil.ToFloat64(rec.Events.WithLabelValues("reload", string(typ)))
	}
	assert.Equal(t, 2.0, events(gate.EventBeforeAttempt))
	assert.Equal(t, 2.0, events(gate.EventAfterAttempt))
	assert.Equal(t, 1.0, events(gate.EventCooldownStart))
	assert.Equal(t, 2.0, events(gate.EventCooldownTick))
	assert.Equal(t, 1.0, events(gate.EventCooldownEnd))
	assert.Equal(t, 1.0, events(gate.EventMaxAttempts))
	assert.Equal(t, 1.0, events(gate.EventRejected))

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.Attempts.WithLabelValues("reload", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Exhausted.WithLabelValues("reload")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.AttemptDuration))
}

func TestRecorder_Success(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	c := newController(t, rec, timertest.New(), func(context.Context) error { return nil })

	assert.Equal(t, gate.Succeeded, c.Attempt(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Attempts.WithLabelValues("reload", "success")))
	assert.Equal(t, 0, testutil.CollectAndCount(rec.Exhausted))
}

func TestNew_registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	rec.Observe(gate.Event{Type: gate.EventCooldownEnd, Controller: "x"})

	n, err := testutil.GatherAndCount(reg, "gate_events_total", "gate_cooldown_remaining_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Panics(t, func() { metrics.New(reg) }, "duplicate registration")
}
