// Package export writes rendered cutting plans to files: SVG and PDF sheet
// diagrams, QR-coded part labels and DXF drawings for the saw or router.
package export

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SlabView/internal/diagram"
	"github.com/piwi3910/SlabView/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	cutListSpace = 38.0
	drawAreaTop  = marginTop + headerHeight + 7.0

	// Diagram pixels are never drawn larger than this on paper.
	maxMMPerPixel = 0.5
)

// pdfGlyphs replaces characters the core fonts cannot encode.
var pdfGlyphs = strings.NewReplacer("↻", "(rot)", "●", "o")

// ExportPDF writes a PDF with one page per sheet showing its diagram and
// cut list, followed by a summary page. containerWidth is the pixel width the
// diagrams are laid out for before being scaled onto the page.
func ExportPDF(path string, plan model.CuttingPlan, containerWidth float64) error {
	if len(plan.SheetPlans) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle("Cutting plan", true)
	pdf.SetCreator("SlabView", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(pdfGlyphs.Replace(s)) }

	view := diagram.RenderPlan(plan, containerWidth)
	for i, sv := range view.Sheets {
		pdf.AddPage()
		renderSheetPage(pdf, text, sv, plan.SheetPlans[i])
	}

	pdf.AddPage()
	renderSummaryPage(pdf, text, plan)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF %s: %w", path, err)
	}
	return nil
}

// renderSheetPage draws one sheet's header, diagram, legend and cut list.
func renderSheetPage(pdf *fpdf.Fpdf, text func(string) string, sv diagram.SheetView, sheet model.SheetPlan) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := sv.Title + "  (" + sv.Dimensions + ")"
	if sv.Zoomed {
		title += " " + diagram.ZoomedNote
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, text(title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("%s | Used area: %.0f mm² | Waste: %.0f mm² | Efficiency: %.1f%%",
		sv.PieceCount, sheet.UsedArea(), sheet.WasteArea, sheet.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, text(stats), "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - cutListSpace

	d := sv.Diagram
	k := math.Min(math.Min(drawWidth/d.Width, drawHeight/d.Height), maxMMPerPixel)
	originX := marginLeft + (drawWidth-d.Width*k)/2
	drawDiagram(pdf, text, d, originX, drawAreaTop, k)

	y := drawAreaTop + d.Height*k + 3
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(107, 114, 128)
	for _, line := range diagram.Legend {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(drawWidth, 3.5, text(line), "", 0, "L", false, 0, "")
		y += 3.5
	}

	drawCutList(pdf, text, sheet, y+2)
}

// drawDiagram paints the elements of d with its top-left corner at (x0, y0),
// k mm per diagram pixel. Everything is clipped to the diagram frame.
func drawDiagram(pdf *fpdf.Fpdf, text func(string) string, d diagram.Diagram, x0, y0, k float64) {
	toX := func(px float64) float64 { return x0 + px*k }
	toY := func(px float64) float64 { return y0 + px*k }

	setDraw(pdf, diagram.ColorFrame)
	setFill(pdf, diagram.ColorBackground)
	pdf.SetLineWidth(0.2)
	pdf.RoundedRect(x0, y0, d.Width*k, d.Height*k, 8*k, "1234", "FD")

	pdf.ClipRect(x0, y0, d.Width*k, d.Height*k, false)
	for _, e := range d.Elements {
		applyStyle(pdf, e.Style, k)
		op := paintOp(e.Style)

		switch e.Shape {
		case diagram.ShapeRect:
			if op == "" {
				break
			}
			if r := e.Style.CornerRadius; r > 0 {
				pdf.RoundedRect(toX(e.X), toY(e.Y), e.W*k, e.H*k, r*k, "1234", op)
			} else {
				pdf.Rect(toX(e.X), toY(e.Y), e.W*k, e.H*k, op)
			}
		case diagram.ShapeCircle:
			if op != "" {
				pdf.Circle(toX(e.X), toY(e.Y), e.R*k, op)
			}
		case diagram.ShapeLine, diagram.ShapePolyline:
			for i := 1; i < len(e.Points); i++ {
				a, b := e.Points[i-1], e.Points[i]
				pdf.Line(toX(a.X), toY(a.Y), toX(b.X), toY(b.Y))
			}
		case diagram.ShapeText:
			drawText(pdf, text, e, toX(e.X), toY(e.Y), k)
		}
		resetStyle(pdf)
	}
	pdf.ClipEnd()
}

func drawText(pdf *fpdf.Fpdf, text func(string) string, e diagram.Element, x, y, k float64) {
	fontStyle := ""
	if e.Style.Bold {
		fontStyle = "B"
	}
	pdf.SetFont("Helvetica", fontStyle, 8)
	pdf.SetFontUnitSize(e.Style.FontSize * k)
	setText(pdf, e.Style.Fill)

	s := text(e.Text)
	if e.Style.Anchor == diagram.AnchorMiddle {
		x -= pdf.GetStringWidth(s) / 2
	}
	pdf.Text(x, y, s)
}

// paintOp returns the fpdf style string for s, or "" if nothing is painted.
func paintOp(s diagram.Style) string {
	op := ""
	if s.Fill.A > 0 {
		op += "F"
	}
	if s.Stroke.A > 0 {
		op += "D"
	}
	return op
}

func applyStyle(pdf *fpdf.Fpdf, s diagram.Style, k float64) {
	if s.Fill.A > 0 {
		setFill(pdf, s.Fill)
	}
	if s.Stroke.A > 0 {
		setDraw(pdf, s.Stroke)
		pdf.SetLineWidth(s.StrokeWidth * k)
	}
	if s.Dashed() {
		dash := make([]float64, len(s.Dash))
		for i, v := range s.Dash {
			dash[i] = v * k
		}
		pdf.SetDashPattern(dash, 0)
	}

	// fpdf has a single alpha for fill and stroke; the fill's wins.
	alpha := 1.0
	if s.Opacity > 0 {
		alpha = s.Opacity
	}
	if s.Fill.A > 0 {
		alpha *= float64(s.Fill.A) / 255
	} else if s.Stroke.A > 0 {
		alpha *= float64(s.Stroke.A) / 255
	}
	if alpha < 1 {
		pdf.SetAlpha(alpha, "Normal")
	}
}

func resetStyle(pdf *fpdf.Fpdf) {
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetAlpha(1, "Normal")
}

func setFill(pdf *fpdf.Fpdf, c color.NRGBA) { pdf.SetFillColor(int(c.R), int(c.G), int(c.B)) }
func setDraw(pdf *fpdf.Fpdf, c color.NRGBA) { pdf.SetDrawColor(int(c.R), int(c.G), int(c.B)) }
func setText(pdf *fpdf.Fpdf, c color.NRGBA) { pdf.SetTextColor(int(c.R), int(c.G), int(c.B)) }

// drawCutList renders a compact list of the sheet's cuts in cutting order,
// wrapping across the bottom of the page.
func drawCutList(pdf *fpdf.Fpdf, text func(string) string, sheet model.SheetPlan, startY float64) {
	if len(sheet.Assignments) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Cut sequence:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, a := range sheet.Assignments {
		label := fmt.Sprintf("%d. %s (%s)", a.SequenceNumber, a.CutLabel, diagram.DimensionText(a))
		label = text(label)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > pageHeight-marginBottom {
			pdf.SetXY(xPos, startY-5)
			pdf.CellFormat(20, 4, fmt.Sprintf("+%d more", len(sheet.Assignments)-i), "", 0, "L", false, 0, "")
			return
		}

		setFill(pdf, diagram.CutColor(i))
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final page with plan totals, the per-sheet
// breakdown and the cuts and sheets the optimizer could not use.
func renderSummaryPage(pdf *fpdf.Fpdf, text func(string) string, plan model.CuttingPlan) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Sheets Used", fmt.Sprintf("%d", plan.SheetsUsed())},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", plan.TotalEfficiency())},
		{"Cuts Placed", fmt.Sprintf("%d", plan.CutCount())},
		{"Unplaced Cuts", fmt.Sprintf("%d", len(plan.UnplacedCuts))},
		{"Kerf Width", fmt.Sprintf("%s mm", diagram.FormatMM(plan.KerfWidth))},
		{"Total Waste", fmt.Sprintf("%.0f mm²", plan.TotalWaste)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, text(item.value), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Sheet Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 70, 50, 30, 35, 60}
	headers := []string{"Sheet", "Stock", "Dimensions", "Cuts", "Efficiency", "Used / Waste Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, sheet := range plan.SheetPlans {
		if y > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			sheet.SheetLabel,
			fmt.Sprintf("%s x %s mm", diagram.FormatMM(sheet.SheetWidth), diagram.FormatMM(sheet.SheetLength)),
			fmt.Sprintf("%d", len(sheet.Assignments)),
			fmt.Sprintf("%.1f%%", sheet.Efficiency()),
			fmt.Sprintf("%.0f / %.0f mm²", sheet.UsedArea(), sheet.WasteArea),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, text(cell), "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(plan.UnplacedCuts) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Cuts", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, c := range plan.UnplacedCuts {
			y = ensureRoom(pdf, y, 5)
			pdf.SetXY(marginLeft+5, y)
			line := fmt.Sprintf("- %s: %s x %s mm", c.CutLabel, diagram.FormatMM(c.Width), diagram.FormatMM(c.Length))
			if c.Reason != "" {
				line += " (" + c.Reason + ")"
			}
			pdf.CellFormat(250, 5, text(line), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	if len(plan.UnusedSheets) > 0 {
		y += 8
		y = ensureRoom(pdf, y, 8)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Unused Sheets", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		for _, s := range plan.UnusedSheets {
			y = ensureRoom(pdf, y, 5)
			pdf.SetXY(marginLeft+5, y)
			line := fmt.Sprintf("- %s: %s x %s mm, qty %d", s.Label, diagram.FormatMM(s.Width), diagram.FormatMM(s.Length), s.Quantity)
			if s.Priority != "" {
				line += " (" + s.Priority + " priority)"
			}
			pdf.CellFormat(250, 5, text(line), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SlabView", "", 0, "C", false, 0, "")
}

// ensureRoom starts a new page when fewer than need mm remain above the
// bottom margin, returning the y to continue at.
func ensureRoom(pdf *fpdf.Fpdf, y, need float64) float64 {
	if y+need <= pageHeight-marginBottom-6 {
		return y
	}
	pdf.AddPage()
	return marginTop
}
