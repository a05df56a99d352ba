package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabView/internal/export"
	"github.com/piwi3910/SlabView/internal/model"
)

// exporter writes a whole plan to path.
type exporter struct {
	name  string
	short string
	ext   string
	write func(path string, plan model.CuttingPlan, width float64) error
}

var exporters = []exporter{
	{
		name:  "pdf",
		short: "Write a PDF report: one page per sheet plus a summary",
		ext:   ".pdf",
		write: export.ExportPDF,
	},
	{
		name:  "labels",
		short: "Write printable QR part labels (Avery 5160)",
		ext:   "-labels.pdf",
		write: func(path string, plan model.CuttingPlan, _ float64) error {
			return export.ExportLabels(path, plan)
		},
	},
	{
		name:  "dxf",
		short: "Write a DXF drawing in millimetres for CNC software",
		ext:   ".dxf",
		write: func(path string, plan model.CuttingPlan, _ float64) error {
			return export.ExportDXF(path, plan)
		},
	},
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a cutting plan as PDF, labels or DXF",
	}
	for _, e := range exporters {
		cmd.AddCommand(newExporterCmd(e))
	}
	return cmd
}

func newExporterCmd(e exporter) *cobra.Command {
	var (
		output string
		width  float64
	)
	cmd := &cobra.Command{
		Use:   e.name + " [plan]",
		Short: e.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), e, args[0], output, width)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", fmt.Sprintf("output file (default: <plan>%s)", e.ext))
	cmd.Flags().Float64VarP(&width, "width", "w", 0, "container width in pixels used for the diagram layout")
	return cmd
}

func runExport(ctx context.Context, e exporter, input, output string, width float64) error {
	logger := loggerFromContext(ctx)
	cfg := sessionFromContext(ctx).config
	prog := newProgress(logger)

	plan, err := loadPlan(ctx, input)
	if err != nil {
		return err
	}
	if len(plan.SheetPlans) == 0 {
		logger.Warn("plan has no sheets", "plan", input)
	}

	out := outputPath(input, output, e.ext, cfg)
	if err := e.write(out, plan, containerWidth(width, cfg)); err != nil {
		return fmt.Errorf("%s export: %w", e.name, err)
	}
	prog.done(fmt.Sprintf("Exported %s %s %s", input, iconArrow, out))
	return nil
}
