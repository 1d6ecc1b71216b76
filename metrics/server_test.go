package metrics_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/gate"
	"github.com/bjaus/gate/metrics"
	"github.com/bjaus/gate/timer/timertest"
)

func TestServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	clock := timertest.New()

	c := newController(t, rec, clock, func(context.Context) error { return errors.New("boom") },
		gate.WithStrategy(gate.StrategyConstant),
		gate.WithCooldown(3*time.Second),
	)
	c.Attempt(context.Background())

	srv := metrics.NewServer(reg, "127.0.0.1:0")
	srv.Watch(c)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `gate_cooldown_remaining_seconds{controller="reload"} 3`)
		assert.Contains(t, string(body), `gate_attempts_total{controller="reload",result="failure"} 1`)
	})

	t.Run("state", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/state")
		require.NoError(t, err)
		defer resp.Body.Close()

		var report []struct {
			Name              string
			Attempt           int
			CooldownRemaining int
			Disabled          bool
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		require.Len(t, report, 1)
		assert.Equal(t, "reload", report[0].Name)
		assert.Equal(t, 2, report[0].Attempt)
		assert.Equal(t, 3, report[0].CooldownRemaining)
		assert.True(t, report[0].Disabled)
	})
}
