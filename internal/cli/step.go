package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bjaus/gate/quantity"
)

// ErrUnknownAction is returned for a step token gatectl does not understand.
var ErrUnknownAction = errors.New("unknown action")

func newStepCmd(root *rootOptions) *cobra.Command {
	var initial string

	cmd := &cobra.Command{
		Use:   "step ACTION...",
		Short: "Apply stepper actions to a quantity and print each result",
		Long: `Apply stepper actions to a quantity and print each result.

Actions:
  up, down           step once
  type:TEXT          replace the value with typed text
  blur               clamp and round the value
  hold-up:DURATION   hold the up button for DURATION
  hold-down:DURATION hold the down button for DURATION`,
		Example: `  gatectl step --value 9.75 up up down blur
  gatectl step --value 5 hold-up:1s`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(cmd.OutOrStdout(), root, initial, args)
		},
	}

	cmd.Flags().StringVar(&initial, "value", "", "initial value (empty for none)")
	return cmd
}

func runStep(out io.Writer, root *rootOptions, initial string, actions []string) error {
	s, err := root.cfg.Quantity.Stepper()
	if err != nil {
		return err
	}

	start, ok := quantity.ParseInput(initial)
	if !ok {
		return fmt.Errorf("invalid --value %q", initial)
	}

	opts := append(root.cfg.Quantity.InputOptions(), quantity.WithValue(start))
	in := quantity.NewInput(s, opts...)
	defer in.Close()

	for _, action := range actions {
		if err := applyAction(in, action); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s\t%s\n", action, in.Value())
	}
	root.logger.Debug("Steps applied", "count", len(actions), "value", in.Value().String())
	return nil
}

func applyAction(in *quantity.Input, action string) error {
	name, arg, _ := strings.Cut(action, ":")
	switch name {
	case "up":
		in.Increment()
	case "down":
		in.Decrement()
	case "blur":
		in.Blur()
	case "type":
		if !in.Type(arg) {
			return fmt.Errorf("rejected input %q", arg)
		}
	case "hold-up", "hold-down":
		d, err := time.ParseDuration(arg)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		dir := quantity.Up
		if name == "hold-down" {
			dir = quantity.Down
		}
		if err := in.StartHold(dir); err != nil {
			return err
		}
		time.Sleep(d)
		in.StopHold()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}
