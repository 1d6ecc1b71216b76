// Package metrics exports a controller's event stream as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bjaus/gate"
)

// Recorder turns gate events into Prometheus metrics. One Recorder can
// observe many controllers; series are labelled by controller name.
type Recorder struct {
	// Events counts every event by type
	Events *prometheus.CounterVec

	// Attempts counts finished attempts by result (success, failure)
	Attempts *prometheus.CounterVec

	// AttemptDuration tracks how long the action ran
	AttemptDuration *prometheus.HistogramVec

	// CooldownRemaining is the whole seconds left in the running cooldown
	CooldownRemaining *prometheus.GaugeVec

	// Exhausted counts sequences that ran out of attempts or were stopped
	Exhausted *prometheus.CounterVec
}

// New registers the gate metrics with reg. A nil reg means
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		Events: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gate_events_total",
				Help: "Total number of controller events",
			},
			[]string{"controller", "type"},
		),
		Attempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gate_attempts_total",
				Help: "Total number of finished attempts",
			},
			[]string{"controller", "result"},
		),
		AttemptDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gate_attempt_duration_seconds",
				Help:    "Attempt duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"controller"},
		),
		CooldownRemaining: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gate_cooldown_remaining_seconds",
				Help: "Seconds left in the running cooldown",
			},
			[]string{"controller"},
		),
		Exhausted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gate_exhausted_total",
				Help: "Total number of exhausted retry sequences",
			},
			[]string{"controller"},
		),
	}
}

// Observe records one event. It has the gate.EventFunc signature.
func (r *Recorder) Observe(e gate.Event) {
	r.Events.WithLabelValues(e.Controller, string(e.Type)).Inc()

	switch e.Type {
	case gate.EventAfterAttempt:
		result := "failure"
		if e.Success {
			result = "success"
		}
		r.Attempts.WithLabelValues(e.Controller, result).Inc()
		r.AttemptDuration.WithLabelValues(e.Controller).Observe(e.Duration.Seconds())
	case gate.EventCooldownStart, gate.EventCooldownTick:
		r.CooldownRemaining.WithLabelValues(e.Controller).Set(float64(e.Remaining))
	case gate.EventCooldownEnd:
		r.CooldownRemaining.WithLabelValues(e.Controller).Set(0)
	case gate.EventMaxAttempts:
		r.Exhausted.WithLabelValues(e.Controller).Inc()
	}
}

// Option subscribes the Recorder to a controller's event stream.
func (r *Recorder) Option() gate.Option {
	return gate.OnEvent(r.Observe)
}
