package widgets

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SlabView/internal/diagram"
	"github.com/piwi3910/SlabView/internal/model"
)

// RenderCuttingPlanDiagrams replaces the children of target with one header,
// diagram and legend per sheet of plan, laid out for target's current width.
// A plan without sheets leaves target empty.
func RenderCuttingPlanDiagrams(plan model.CuttingPlan, target *fyne.Container) diagram.PlanView {
	width := diagram.ContainerWidth(float64(target.Size().Width))
	view := diagram.RenderPlan(plan, width)

	objects := make([]fyne.CanvasObject, 0, len(view.Sheets))
	for _, s := range view.Sheets {
		objects = append(objects, sheetSection(s))
	}
	target.Objects = objects
	target.Refresh()
	return view
}

// sheetSection is the header, diagram and legend of one sheet.
func sheetSection(s diagram.SheetView) fyne.CanvasObject {
	header := container.NewHBox(
		widget.NewLabelWithStyle(s.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(s.Dimensions),
	)
	if s.Zoomed {
		header.Add(widget.NewLabelWithStyle(diagram.ZoomedNote, fyne.TextAlignLeading, fyne.TextStyle{Italic: true}))
	}
	header.Add(layout.NewSpacer())
	header.Add(widget.NewLabel(s.PieceCount))

	legend := container.NewHBox()
	for _, line := range diagram.Legend {
		l := widget.NewLabel(line)
		l.SizeName = theme.SizeNameCaptionText
		legend.Add(l)
	}

	return container.NewVBox(
		header,
		container.NewHBox(NewSheetDiagram(s.Diagram), layout.NewSpacer()),
		legend,
	)
}

// PlanDiagrams shows every sheet of a plan and lays them out again whenever
// its width changes.
type PlanDiagrams struct {
	widget.BaseWidget
	plan      *model.CuttingPlan
	content   *fyne.Container
	lastWidth float32
	view      diagram.PlanView
}

func NewPlanDiagrams() *PlanDiagrams {
	p := &PlanDiagrams{content: container.NewVBox()}
	p.ExtendBaseWidget(p)
	return p
}

// SetPlan shows plan, or the empty placeholder for nil.
func (p *PlanDiagrams) SetPlan(plan *model.CuttingPlan) {
	p.plan = plan
	p.render()
	p.Refresh()
}

// View returns the layout currently shown.
func (p *PlanDiagrams) View() diagram.PlanView {
	return p.view
}

func (p *PlanDiagrams) render() {
	if p.plan == nil {
		p.view = diagram.PlanView{}
		p.content.Objects = []fyne.CanvasObject{
			widget.NewLabel("No cutting plan loaded. Open a plan file or import an assignment table."),
		}
		p.content.Refresh()
		return
	}
	p.view = RenderCuttingPlanDiagrams(*p.plan, p.content)
	p.content.Add(PlanSummary(*p.plan))
}

func (p *PlanDiagrams) CreateRenderer() fyne.WidgetRenderer {
	p.render()
	return &planDiagramsRenderer{p: p}
}

type planDiagramsRenderer struct {
	p *PlanDiagrams
}

func (r *planDiagramsRenderer) Layout(size fyne.Size) {
	r.p.content.Resize(size)
	if size.Width != r.p.lastWidth {
		r.p.lastWidth = size.Width
		r.p.render()
	}
}

func (r *planDiagramsRenderer) MinSize() fyne.Size           { return r.p.content.MinSize() }
func (r *planDiagramsRenderer) Refresh()                     { r.p.content.Refresh() }
func (r *planDiagramsRenderer) Destroy()                     {}
func (r *planDiagramsRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.p.content} }

// PlanSummary lists the plan totals, a per-size sheet breakdown, and the
// cuts and stock the optimizer left over.
func PlanSummary(plan model.CuttingPlan) fyne.CanvasObject {
	var items []fyne.CanvasObject

	if len(plan.UnplacedCuts) > 0 {
		warning := widget.NewLabel(fmt.Sprintf(
			"WARNING: %d cuts could not be placed!", len(plan.UnplacedCuts)))
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
		for _, u := range plan.UnplacedCuts {
			line := fmt.Sprintf("  %s (%s × %s mm)", u.CutLabel, diagram.FormatMM(u.Width), diagram.FormatMM(u.Length))
			if u.Reason != "" {
				line += ": " + u.Reason
			}
			items = append(items, widget.NewLabel(line))
		}
	}

	if len(plan.UnusedSheets) > 0 {
		total := 0
		for _, s := range plan.UnusedSheets {
			total += s.Quantity
		}
		items = append(items, widget.NewLabelWithStyle(
			fmt.Sprintf("Unused Stock (%s)", sheetCount(total)), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		for _, s := range plan.UnusedSheets {
			items = append(items, widget.NewLabel(fmt.Sprintf("  %d × %s (%s × %s × %s mm)", s.Quantity, s.Label,
				diagram.FormatMM(s.Width), diagram.FormatMM(s.Length), diagram.FormatMM(s.Thickness))))
		}
	}

	if breakdown := buildSheetSizeBreakdown(plan); len(breakdown) > 1 {
		items = append(items, widget.NewSeparator())
		items = append(items, widget.NewLabelWithStyle("Sheet Size Breakdown:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		for _, line := range breakdown {
			items = append(items, widget.NewLabel(line))
		}
	}

	summary := widget.NewLabel(fmt.Sprintf(
		"Total: %s used, %s, %.1f%% overall efficiency",
		sheetCount(plan.SheetsUsed()), diagram.PieceCount(plan.CutCount()), plan.TotalEfficiency(),
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVBox(items...)
}

func sheetCount(n int) string {
	if n == 1 {
		return "1 sheet"
	}
	return fmt.Sprintf("%d sheets", n)
}

// buildSheetSizeBreakdown groups sheets by their dimensions and reports
// count, pieces and efficiency per size, in order of first appearance.
func buildSheetSizeBreakdown(plan model.CuttingPlan) []string {
	type sizeKey struct {
		w, l float64
	}
	type sizeStats struct {
		count     int
		pieces    int
		usedArea  float64
		totalArea float64
	}

	var order []sizeKey
	stats := make(map[sizeKey]*sizeStats)
	for _, sp := range plan.SheetPlans {
		key := sizeKey{sp.SheetWidth, sp.SheetLength}
		s, ok := stats[key]
		if !ok {
			s = &sizeStats{}
			stats[key] = s
			order = append(order, key)
		}
		s.count++
		s.pieces += len(sp.Assignments)
		s.usedArea += sp.UsedArea()
		s.totalArea += sp.TotalArea()
	}

	var lines []string
	for _, key := range order {
		s := stats[key]
		eff := 0.0
		if s.totalArea > 0 {
			eff = s.usedArea / s.totalArea * 100
		}
		lines = append(lines, fmt.Sprintf("  %s × %s: %s, %s, %.1f%% efficiency",
			diagram.FormatMM(key.w), diagram.FormatMM(key.l), sheetCount(s.count), diagram.PieceCount(s.pieces), eff))
	}
	return lines
}
