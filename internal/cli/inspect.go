package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabView/internal/diagram"
	"github.com/piwi3910/SlabView/internal/model"
)

// sheetSummary is the layout of one sheet as reported by inspect.
type sheetSummary struct {
	Index      int                      `json:"index"`
	Title      string                   `json:"title"`
	Dimensions string                   `json:"dimensions"`
	Viewport   diagram.Viewport         `json:"viewport"`
	Width      float64                  `json:"width_px"`
	Height     float64                  `json:"height_px"`
	Pieces     int                      `json:"pieces"`
	Tiny       int                      `json:"tiny"`
	Callouts   []diagram.Callout        `json:"callouts"`
	Lines      []diagram.GuillotineLine `json:"guillotine_lines"`
	Efficiency float64                  `json:"efficiency"`
}

func summarize(plan model.CuttingPlan, view diagram.PlanView) []sheetSummary {
	out := make([]sheetSummary, 0, len(view.Sheets))
	for i, s := range view.Sheets {
		tiny := 0
		for _, c := range s.Diagram.Cuts {
			if c.Tiny {
				tiny++
			}
		}
		out = append(out, sheetSummary{
			Index:      s.Index,
			Title:      s.Title,
			Dimensions: s.Dimensions,
			Viewport:   s.Diagram.Viewport,
			Width:      s.Diagram.Width,
			Height:     s.Diagram.Height,
			Pieces:     len(s.Diagram.Cuts),
			Tiny:       tiny,
			Callouts:   s.Diagram.Callouts,
			Lines:      s.Diagram.Lines,
			Efficiency: plan.SheetPlans[i].Efficiency(),
		})
	}
	return out
}

func newInspectCmd() *cobra.Command {
	var (
		width  float64
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "inspect [plan]",
		Short: "Print the computed layout of every sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd.OutOrStdout(), args[0], width, asJSON)
		},
	}
	cmd.Flags().Float64VarP(&width, "width", "w", 0, "container width in pixels")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func runInspect(ctx context.Context, w io.Writer, input string, width float64, asJSON bool) error {
	cfg := sessionFromContext(ctx).config
	plan, err := loadPlan(ctx, input)
	if err != nil {
		return err
	}
	view := diagram.RenderPlan(plan, containerWidth(width, cfg))
	summaries := summarize(plan, view)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}
	_, err = io.WriteString(w, formatInspect(plan, view.ContainerWidth, summaries))
	return err
}

// formatInspect renders the summaries as styled terminal text.
func formatInspect(plan model.CuttingPlan, width float64, sheets []sheetSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styleTitle.Render("Plan"), styleDim.Render(plan.ID))
	fmt.Fprintln(&b, keyValue("sheets", plan.SheetsUsed()))
	fmt.Fprintln(&b, keyValue("pieces", plan.CutCount()))
	fmt.Fprintln(&b, keyValue("efficiency", fmt.Sprintf("%.1f%%", plan.TotalEfficiency())))
	fmt.Fprintln(&b, keyValue("width", fmt.Sprintf("%g px", width)))

	for _, s := range sheets {
		b.WriteString("\n")
		title := styleTitle.Render(s.Title) + " " + styleDim.Render(s.Dimensions)
		if s.Viewport.Cropped {
			title += " " + styleWarning.Render(diagram.ZoomedNote)
		}
		fmt.Fprintln(&b, title)
		vp := s.Viewport
		fmt.Fprintln(&b, keyValue("viewport", fmt.Sprintf("x %s y %s, %s × %s mm",
			diagram.FormatMM(vp.VX), diagram.FormatMM(vp.VY), diagram.FormatMM(vp.VW), diagram.FormatMM(vp.VH))))
		fmt.Fprintln(&b, keyValue("scale", fmt.Sprintf("%.3f px/mm", vp.Scale)))
		fmt.Fprintln(&b, keyValue("canvas", fmt.Sprintf("%.0f × %.0f px", s.Width, s.Height)))
		fmt.Fprintln(&b, keyValue("pieces", fmt.Sprintf("%s, %s tiny", styleNumber.Render(fmt.Sprint(s.Pieces)), styleNumber.Render(fmt.Sprint(s.Tiny)))))
		fmt.Fprintln(&b, keyValue("cut lines", len(s.Lines)))
		fmt.Fprintln(&b, keyValue("efficiency", fmt.Sprintf("%.1f%%", s.Efficiency)))
		for _, c := range s.Callouts {
			if c.Clamped {
				b.WriteString(warningLine(fmt.Sprintf("callout for piece %d clamped to the bottom of the gutter", c.CutIndex+1)) + "\n")
			}
		}
	}

	for _, u := range plan.UnplacedCuts {
		b.WriteString("\n" + errorLine(fmt.Sprintf("unplaced: %s %s×%s mm %s", u.CutLabel,
			diagram.FormatMM(u.Width), diagram.FormatMM(u.Length), styleDim.Render(u.Reason))))
	}
	if len(plan.UnplacedCuts) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}
