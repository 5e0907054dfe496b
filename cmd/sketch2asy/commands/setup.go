// Package commands implements the sketch2asy subcommands.
package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chazu/sketch2asy/pkg/config"
	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/logger"
)

// flagKeys maps command line flags onto config keys. Only flags the user
// actually set override the config files.
var flagKeys = map[string]string{
	"accuracy":             "accuracy",
	"indent":               "comments_indent",
	"dot-labels":           "print_dot_labels",
	"unitsize":             "unitsize",
	"skip-construction":    "construction.skip",
	"comment-construction": "construction.comment",
	"log-json":             "log.json",
}

// loaded is the configuration resolved by Initialize for the running
// command.
var loaded *config.Config

// Initialize resolves configuration for cmd and installs the logger. It
// runs before every subcommand.
func Initialize(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	v, sources, err := config.NewViper(path)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return errors.WithHint(err, "fix the setting in your config file or SKETCH2ASY_* environment")
	}
	cfg.Sources = sources

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		verbosity = cfg.Log.Verbosity
	}
	if err := logger.Initialize(cfg.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	logger.Logger.Debugw("Configuration loaded",
		"command", cmd.Name(),
		"sources", sources)
	loaded = cfg
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind --%s", name)
		}
	}
	return nil
}
