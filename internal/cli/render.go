package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabView/internal/diagram"
	"github.com/piwi3910/SlabView/internal/export"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output string  // output file path, "-" for stdout
	width  float64 // container width in pixels, 0 = config default
	sheet  int     // 1-based sheet to render alone, 0 = whole plan
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [plan]",
		Short: "Render a cutting plan to SVG",
		Long:  `Render lays out every sheet of a plan and writes the diagrams as one SVG document, or a single sheet with --sheet.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <plan>.svg, - for stdout)")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", 0, "container width in pixels")
	cmd.Flags().IntVar(&opts.sheet, "sheet", 0, "render only this sheet (1-based)")
	return cmd
}

func runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg := sessionFromContext(ctx).config
	prog := newProgress(logger)

	plan, err := loadPlan(ctx, input)
	if err != nil {
		return err
	}
	width := containerWidth(opts.width, cfg)

	out := outputPath(input, opts.output, ".svg", cfg)
	w := os.Stdout
	if out != stdinName {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	if opts.sheet > 0 {
		if opts.sheet > len(plan.SheetPlans) {
			return fmt.Errorf("sheet %d out of range: plan has %d sheets", opts.sheet, len(plan.SheetPlans))
		}
		d := diagram.RenderSheet(plan.SheetPlans[opts.sheet-1], width)
		logger.Debug("rendered sheet", "sheet", opts.sheet, "cropped", d.Viewport.Cropped, "elements", len(d.Elements))
		if err := export.WriteSheetSVG(w, d); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
	} else {
		view := diagram.RenderPlan(plan, width)
		if err := export.WritePlanSVG(w, view); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
	}

	if out != stdinName {
		prog.done(fmt.Sprintf("Rendered %s %s %s", input, iconArrow, out))
	}
	return nil
}
