// Package cli implements the gatectl command line.
package cli

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/bjaus/gate/config"
)

type rootOptions struct {
	cfgPath string
	isDebug bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the gatectl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gatectl",
		Short: "Exercise retry gates and quantity steppers",
		Long: `gatectl drives a retry controller or a quantity stepper from the command line,
using the same configuration file a service would load.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgPath, "config", "", "config file (defaults apply when empty)")
	cmd.PersistentFlags().BoolVar(&opts.isDebug, "debug", false, "enable debug logging")

	cmd.AddCommand(newSimulateCmd(opts))
	cmd.AddCommand(newStepCmd(opts))
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *rootOptions) load(stderr io.Writer) error {
	_ = godotenv.Load()

	cfg := config.Default()
	if o.cfgPath != "" {
		loaded, err := config.Load(o.cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	o.cfg = cfg

	slogLevel, err := cfg.Logging.SlogLevel()
	if err != nil {
		return err
	}
	if o.isDebug {
		slogLevel = slog.LevelDebug
	}

	o.logger = slog.New(tint.NewHandler(stderr, &tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	}))
	o.logger.Debug("Logger initialized", "level", slogLevel.String(), "config", o.cfgPath)
	return nil
}
