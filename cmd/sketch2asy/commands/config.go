package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/sketch2asy/pkg/config"
)

// ConfigCmd groups configuration subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect sketch2asy configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  "Display the configuration after merging defaults, config files and SKETCH2ASY_* environment variables.",
	RunE:  runConfigShow,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "List the config files that were merged",
	RunE:  runConfigWhere,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml",
		"Output format: "+strings.Join(config.Formats, ", "))

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := config.Render(loaded, configFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(loaded.Sources) == 0 {
		fmt.Fprintln(out, "no config files found; using defaults")
		return nil
	}
	for _, s := range loaded.Sources {
		fmt.Fprintln(out, s)
	}
	return nil
}
