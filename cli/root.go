// Package cli holds the cardflip commands
package cli

import (
	"context"
	"fmt"
	"os"

	"cardflip/config"
	"cardflip/logging"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is set at build time
var Version = "dev"

// app carries what every subcommand needs once flags are parsed
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

// NewRootCommand builds the command tree around a fresh viper instance
func NewRootCommand() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:           "cardflip",
		Short:         "Physics-driven card flip viewer",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bindFlags(cmd); err != nil {
				return err
			}
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logging.InitializeLogger(cfg.Logger)
			logging.GetLogger().Debug("config loaded", zap.String("file", a.cfgFile))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	flags.Bool("physics", true, "randomize flips with the physics model")
	flags.Uint64("seed", 0, "random seed for flip configs, 0 picks one")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(newViewCommand(a), newTUICommand(a), newTraceCommand(a))
	return root
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"physics": "physics.enabled",
	"seed":    "physics.seed",
	"fps":     "trace.fps",
	"flips":   "trace.flips",
	"output":  "trace.output",
}

// bindFlags binds the flags the running command knows about, inherited
// ones included, so they override file and env values
func (a *app) bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := a.v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind flag %s", name)
		}
	}
	return nil
}

// Execute runs the command line and flushes the logger
func Execute(ctx context.Context) error {
	defer logging.Sync()

	err := NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	// Config errors happen before the logger exists
	if logging.Initialized() {
		logging.GetLogger().Error("command failed", zap.Error(err))
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
