package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/sketch2asy/pkg/engine"
	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/sketch"
)

// CheckCmd validates a sketch source file without exporting it.
var CheckCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate a sketch source file",
	Long: `Evaluate a sketch source file and report validation findings for every
sketch it defines: bounds, element counts, errors and warnings.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	doc, err := loadDocument(engine.NewEngine(), args[0], cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	for _, s := range doc.Sketches {
		marker := " "
		if s.Name == doc.InEdit {
			marker = "*"
		}
		box := s.Bounds()
		fmt.Fprintf(out, "%s %-20s %3d elements  bounds (%g, %g)..(%g, %g)\n",
			marker, s.Name, s.Len(), box.Min.X, box.Min.Y, box.Max.X, box.Max.Y)
	}

	res := sketch.Validate(doc)
	for _, e := range res.Errors {
		fmt.Fprintln(out, e.Error())
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(out, w.Error())
	}
	if !res.OK() {
		return errors.Wrapf(errors.ErrInvalidSketch, "%d validation error(s)", len(res.Errors))
	}
	fmt.Fprintf(out, "ok: %d sketch(es), %d warning(s)\n", len(doc.Sketches), len(res.Warnings))
	return nil
}
