package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/sketch2asy/cmd/sketch2asy/commands"
	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "sketch2asy",
	Short: "Export 2D sketches as Asymptote source",
	Long: `sketch2asy - Export 2D sketches as Asymptote drawing scripts.

Sketches are described in a small Lisp (see examples/) and the sketch in
edit mode is written out as Asymptote: a pair declaration for every
distinct point followed by one draw statement per element.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (SKETCH2ASY_* prefix)
3. Project config (sketch2asy.toml, searched upward) or --config FILE
4. User config (<user config dir>/sketch2asy/sketch2asy.toml)
5. Default values

Examples:
  sketch2asy export bracket.zy                  # Write Asymptote to stdout
  sketch2asy export bracket.zy -o bracket.asy   # Write to a file
  sketch2asy export bracket.zy --skip-construction
  sketch2asy check bracket.zy                   # Validate without exporting
  sketch2asy config show --format yaml          # Show effective settings`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: commands.Initialize,
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: sketch2asy.toml searched upward)")

	rootCmd.AddCommand(commands.ExportCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		os.Exit(1)
	}
}
