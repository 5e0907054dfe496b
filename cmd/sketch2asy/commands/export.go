package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazu/sketch2asy/pkg/asy"
	"github.com/chazu/sketch2asy/pkg/engine"
	"github.com/chazu/sketch2asy/pkg/errors"
	"github.com/chazu/sketch2asy/pkg/logger"
	"github.com/chazu/sketch2asy/pkg/sketch"
	"github.com/chazu/sketch2asy/pkg/watch"
)

// ExportCmd writes the sketch in edit mode as Asymptote.
var ExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export the sketch in edit mode as Asymptote",
	Long: `Evaluate a sketch source file and write the sketch in edit mode as
Asymptote source. The source selects the sketch with (edit "name");
--sketch overrides that choice.

Examples:
  sketch2asy export bracket.zy
  sketch2asy export bracket.zy --sketch profile -o profile.asy
  sketch2asy export bracket.zy --accuracy 0 --comment-construction
  sketch2asy export bracket.zy -o bracket.asy --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportSketch string
	exportOutput string
	exportWatch  bool
)

func init() {
	ExportCmd.Flags().StringVar(&exportSketch, "sketch", "", "Sketch to export instead of the one in edit mode")
	ExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	ExportCmd.Flags().BoolVarP(&exportWatch, "watch", "w", false, "Export again whenever FILE changes")

	ExportCmd.Flags().Int("accuracy", asy.DefaultAccuracy, "Decimals in numbers; 0 selects the general format")
	ExportCmd.Flags().Int("indent", asy.DefaultCommentsIndent, "Column for trailing length comments")
	ExportCmd.Flags().String("unitsize", asy.DefaultUnitSize, "Asymptote unitsize")
	ExportCmd.Flags().Bool("skip-construction", false, "Leave construction geometry out")
	ExportCmd.Flags().Bool("comment-construction", false, "Emit construction geometry commented out")
	ExportCmd.Flags().Bool("dot-labels", false, "Add a commented-out block labelling every pair")
}

func runExport(cmd *cobra.Command, args []string) error {
	source := args[0]
	eng := engine.NewEngine()
	policy := loaded.Policy()

	err := exportOnce(eng, source, policy, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if !exportWatch {
		return err
	}
	if err != nil {
		logger.Logger.Errorw("Export failed", "file", source, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fw, err := watch.New(source, func(string) {
		if err := exportOnce(eng, source, policy, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
			logger.Logger.Errorw("Export failed", "file", source, "error", err)
			return
		}
		logger.Logger.Infow("Exported", "file", source, "output", outputName())
	})
	if err != nil {
		return err
	}
	logger.Logger.Infow("Watching for changes", "file", source)
	return fw.Run(ctx)
}

// exportOnce evaluates source and writes the export to --output or out.
func exportOnce(eng *engine.Engine, source string, p asy.Policy, out, errOut io.Writer) error {
	doc, err := loadDocument(eng, source, errOut)
	if err != nil {
		return err
	}
	if exportSketch != "" {
		if err := doc.Edit(exportSketch); err != nil {
			return errors.WithHint(err, "check the --sketch name against the (sketch ...) forms in the source")
		}
	}
	if err := checkDocument(doc); err != nil {
		return err
	}

	if exportOutput == "" {
		if err := asy.Export(doc, p, asy.WriterSink{Out: out, Err: errOut}, time.Now()); err != nil {
			return err
		}
	} else {
		// The file is only replaced once the export succeeded.
		var buf bytes.Buffer
		if err := asy.Export(doc, p, asy.WriterSink{Out: &buf, Err: errOut}, time.Now()); err != nil {
			return err
		}
		if err := os.WriteFile(exportOutput, buf.Bytes(), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", exportOutput)
		}
	}
	if active, err := doc.Active(); err == nil {
		logger.Logger.Debugw("Exported sketch",
			"sketch", active.Name,
			"elements", active.Len(),
			"output", outputName())
	}
	return nil
}

func outputName() string {
	if exportOutput == "" {
		return "stdout"
	}
	return exportOutput
}

// loadDocument reads and evaluates a sketch source file. Evaluation errors
// are written to errOut one per line.
func loadDocument(eng *engine.Engine, source string, errOut io.Writer) (*sketch.Document, error) {
	src, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", source)
	}

	doc, evalErrs, err := eng.Evaluate(string(src))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to evaluate %s", source)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			io.WriteString(errOut, source+": "+e.Error()+"\n")
		}
		return nil, errors.WithHint(
			errors.Newf("%s: %d evaluation error(s)", source, len(evalErrs)),
			"see examples/ for the sketch description forms")
	}
	return doc, nil
}

// checkDocument logs validation warnings and fails on validation errors.
func checkDocument(doc *sketch.Document) error {
	res := sketch.Validate(doc)
	for _, w := range res.Warnings {
		logger.Logger.Warnw("Sketch warning", "finding", w.Error())
	}
	if res.OK() {
		return nil
	}
	for _, e := range res.Errors {
		logger.Logger.Errorw("Sketch error", "finding", e.Error())
	}
	return errors.WithDetailf(
		errors.Wrapf(errors.ErrInvalidSketch, "%d validation error(s), first: %s", len(res.Errors), res.Errors[0].Message),
		"%d warning(s)", len(res.Warnings))
}
