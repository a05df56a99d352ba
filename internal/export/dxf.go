package export

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/SlabView/internal/diagram"
	"github.com/piwi3910/SlabView/internal/model"
)

// DXF layer names.
const (
	LayerSheets     = "SHEETS"
	LayerCuts       = "CUTS"
	LayerGuillotine = "GUILLOTINE"
	LayerLabels     = "LABELS"
)

const (
	dxfSheetGap      = 100.0 // mm between sheets laid out left to right
	dxfTitleHeight   = 30.0
	dxfMinTextHeight = 5.0
	dxfMaxTextHeight = 40.0
)

// ExportDXF writes every sheet of plan to a DXF drawing in millimetres. Sheets
// are placed side by side along X with the Y axis pointing up, so a cut's
// top edge at y in the plan lands at sheetLength-y. Sheet outlines, cut
// rectangles, full-length guillotine lines and labels each get their own
// layer.
func ExportDXF(path string, plan model.CuttingPlan) error {
	if len(plan.SheetPlans) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	d := dxf.NewDrawing()
	for _, l := range []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerSheets, color.White},
		{LayerCuts, color.Cyan},
		{LayerGuillotine, color.Red},
		{LayerLabels, color.Yellow},
	} {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add DXF layer %s: %w", l.name, err)
		}
	}

	offsetX := 0.0
	for i, sheet := range plan.SheetPlans {
		if err := drawSheetDXF(d, sheet, i+1, offsetX); err != nil {
			return fmt.Errorf("failed to draw sheet %d: %w", i+1, err)
		}
		offsetX += sheet.SheetWidth + dxfSheetGap
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF %s: %w", path, err)
	}
	return nil
}

func drawSheetDXF(d *drawing.Drawing, sheet model.SheetPlan, index int, offsetX float64) error {
	flip := func(y float64) float64 { return sheet.SheetLength - y }

	if err := d.ChangeLayer(LayerSheets); err != nil {
		return err
	}
	if _, err := d.LwPolyline(true, rectVertices(offsetX, 0, sheet.SheetWidth, sheet.SheetLength)...); err != nil {
		return err
	}

	if err := d.ChangeLayer(LayerLabels); err != nil {
		return err
	}
	title := fmt.Sprintf("Sheet %d: %s (%s x %s mm)", index, sheet.SheetLabel,
		diagram.FormatMM(sheet.SheetWidth), diagram.FormatMM(sheet.SheetLength))
	if _, err := d.Text(title, offsetX, sheet.SheetLength+dxfTitleHeight/2, 0, dxfTitleHeight/2); err != nil {
		return err
	}

	if err := d.ChangeLayer(LayerGuillotine); err != nil {
		return err
	}
	full := diagram.Viewport{VW: sheet.SheetWidth, VH: sheet.SheetLength, Scale: 1}
	for _, l := range diagram.GuillotineLines(sheet.Assignments, full) {
		var err error
		if l.Axis == diagram.AxisVertical {
			_, err = d.Line(offsetX+l.Pos, 0, 0, offsetX+l.Pos, sheet.SheetLength, 0)
		} else {
			y := flip(l.Pos)
			_, err = d.Line(offsetX, y, 0, offsetX+sheet.SheetWidth, y, 0)
		}
		if err != nil {
			return err
		}
	}

	for _, a := range sheet.Assignments {
		w, h := a.PlacedWidth(), a.PlacedLength()
		x := offsetX + a.XPosition
		y := flip(a.Bottom())

		if err := d.ChangeLayer(LayerCuts); err != nil {
			return err
		}
		if _, err := d.LwPolyline(true, rectVertices(x, y, w, h)...); err != nil {
			return err
		}

		if err := d.ChangeLayer(LayerLabels); err != nil {
			return err
		}
		th := labelTextHeight(w, h)
		label := fmt.Sprintf("%d %s", a.SequenceNumber, a.CutLabel)
		if _, err := d.Text(label, x+th/2, y+h/2, 0, th); err != nil {
			return err
		}
	}
	return nil
}

// rectVertices lists the corners of an axis-aligned rectangle counter-clockwise
// from its lower-left corner.
func rectVertices(x, y, w, h float64) [][]float64 {
	return [][]float64{
		{x, y},
		{x + w, y},
		{x + w, y + h},
		{x, y + h},
	}
}

// labelTextHeight sizes label text to a fifth of the cut's shorter side.
func labelTextHeight(w, h float64) float64 {
	return math.Max(dxfMinTextHeight, math.Min(dxfMaxTextHeight, math.Min(w, h)/5))
}
