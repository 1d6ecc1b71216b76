package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/bjaus/gate"
	"github.com/bjaus/gate/metrics"
)

// errSimulated is what the simulated action fails with.
var errSimulated = errors.New("simulated failure")

// ErrExhausted is returned when a simulation runs out of attempts.
var ErrExhausted = errors.New("retries exhausted")

type simulateOptions struct {
	failures    int
	maxAttempts int
	cooldown    time.Duration
	strategy    string
	metricsAddr string
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drive a retry controller against an action that fails a set number of times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, root, opts)
		},
	}

	cmd.Flags().IntVar(&opts.failures, "fail", 2, "number of failures before the action succeeds")
	cmd.Flags().IntVar(&opts.maxAttempts, "max-attempts", 0, "override retry.max_attempts")
	cmd.Flags().DurationVar(&opts.cooldown, "cooldown", 0, "override retry.cooldown")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "override retry.strategy")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics and /state on this address while running")
	return cmd
}

func runSimulate(cmd *cobra.Command, root *rootOptions, opts *simulateOptions) error {
	rc := root.cfg.Retry
	if cmd.Flags().Changed("max-attempts") {
		rc.MaxAttempts = opts.maxAttempts
	}
	if cmd.Flags().Changed("cooldown") {
		rc.Cooldown = opts.cooldown
	}
	if cmd.Flags().Changed("strategy") {
		rc.Strategy = opts.strategy
	}
	cfg := *root.cfg
	cfg.Retry = rc
	if err := cfg.Validate(); err != nil {
		return err
	}
	gateOpts, err := rc.Options()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	rec := metrics.New(reg)

	out := cmd.OutOrStdout()
	logger := root.logger

	remaining := opts.failures
	ctrl := gate.New(func(ctx context.Context) error {
		if remaining > 0 {
			remaining--
			return errSimulated
		}
		return nil
	}, append(gateOpts,
		gate.WithLogger(logger),
		rec.Option(),
		gate.OnEvent(func(e gate.Event) {
			logger.Debug("event", "type", e.Type, "id", e.ID, "attempt", e.Attempt, "remaining", e.Remaining)
		}),
		gate.OnAfterAttempt(func(ctx context.Context, r gate.AttemptRecord) {
			result := "ok"
			if !r.Success {
				result = r.Err.Error()
			}
			_, _ = fmt.Fprintf(out, "attempt %d: %s\n", r.Attempt, result)
		}),
		gate.OnCooldownStart(func(d time.Duration) {
			_, _ = fmt.Fprintf(out, "cooldown %v\n", d)
		}),
	)...)
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := root.cfg.Metrics.Addr
	if opts.metricsAddr != "" {
		addr = opts.metricsAddr
	}
	if addr != "" {
		srv := metrics.NewServer(reg, addr)
		srv.Watch(ctrl)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
		logger.Info("Serving metrics", "addr", addr)
	}

	outcome := gate.Drive(ctx, ctrl)
	_, _ = fmt.Fprintf(out, "outcome: %s\n", outcome)

	switch outcome {
	case gate.Succeeded:
		return nil
	case gate.Exhausted:
		return ErrExhausted
	default:
		return ctx.Err()
	}
}
