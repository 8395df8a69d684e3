package cli

import (
	"cardflip/card"
	"cardflip/game"
	"cardflip/logging"
	"cardflip/trace"
	"cardflip/tui"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newViewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Open the card in a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return game.Run(game.ConfigFrom(a.cfg), logging.GetLogger())
		},
	}
}

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Show the card in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), card.SettingsFrom(a.cfg), logging.GetLogger())
		},
	}
}

func newTraceCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Simulate flips on a fixed frame clock and print the frames as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger().Named("trace")
			t, err := trace.Simulate(trace.Options{
				FPS:     a.cfg.Trace.FPS,
				Flips:   a.cfg.Trace.Flips,
				Physics: a.cfg.Physics.Enabled,
				Seed:    a.cfg.Physics.Seed,
				Logger:  logger,
			})
			if err != nil {
				return errors.Wrap(err, "simulate")
			}

			out := a.cfg.Trace.Output
			if out == "" || out == "-" {
				return trace.Encode(cmd.OutOrStdout(), t)
			}
			if err := trace.WriteFile(out, t); err != nil {
				return err
			}
			logger.Info("trace written", zap.String("path", out))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int("fps", 60, "simulated frame rate")
	flags.Int("flips", 2, "number of consecutive flips")
	flags.StringP("output", "o", "-", "output file, - for stdout")
	return cmd
}
