package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo/float"

	"github.com/piwi3910/SlabView/internal/diagram"
)

// Layout of the stacked plan document, in diagram pixels.
const (
	svgHeaderHeight = 30.0
	svgLegendLine   = 14.0
	svgSheetGap     = 18.0
)

// errWriter remembers the first write error so the svgo calls, which do not
// report errors, can be checked once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// WriteSheetSVG writes a single sheet diagram as a standalone SVG document.
func WriteSheetSVG(w io.Writer, d diagram.Diagram) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Startview(d.Width, d.Height, 0, 0, d.Width, d.Height)
	canvas.Title(d.SheetLabel)
	drawFrame(canvas, d)
	drawElements(canvas, d.Elements)
	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("failed to write SVG for sheet %q: %w", d.SheetLabel, ew.err)
	}
	return nil
}

// WritePlanSVG writes every sheet of view into one document, stacked
// vertically, each with its header line and the legend.
func WritePlanSVG(w io.Writer, view diagram.PlanView) error {
	if len(view.Sheets) == 0 {
		return fmt.Errorf("no sheets to render")
	}

	width := 0.0
	height := 0.0
	for _, s := range view.Sheets {
		width = max(width, s.Diagram.Width)
		height += sheetBlockHeight(s)
	}
	height -= svgSheetGap

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Startview(width, height, 0, 0, width, height)
	canvas.Title("Cutting plan")

	y := 0.0
	for _, s := range view.Sheets {
		canvas.Gid(fmt.Sprintf("sheet-%d", s.Index))
		canvas.Text(0, y+18, s.Title, textStyle(diagram.Style{Fill: diagram.ColorCalloutLabel, FontSize: 13, Bold: true}))
		canvas.Text(0, y+svgHeaderHeight-2, sheetCaption(s), textStyle(diagram.Style{Fill: diagram.ColorCalloutDetail, FontSize: 10}))

		clipID := fmt.Sprintf("frame-%d", s.Index)
		canvas.Translate(0, y+svgHeaderHeight)
		canvas.Def()
		canvas.ClipPath(`id="` + clipID + `"`)
		canvas.Rect(0, 0, s.Diagram.Width, s.Diagram.Height)
		canvas.ClipEnd()
		canvas.DefEnd()
		drawFrame(canvas, s.Diagram)
		// The clip keeps a cropped sheet's outline inside its frame.
		canvas.Group(`clip-path="url(#` + clipID + `)"`)
		drawElements(canvas, s.Diagram.Elements)
		canvas.Gend()
		canvas.Gend()

		ly := y + svgHeaderHeight + s.Diagram.Height + svgLegendLine
		for _, line := range diagram.Legend {
			canvas.Text(0, ly, line, textStyle(diagram.Style{Fill: diagram.ColorCalloutDetail, FontSize: 9}))
			ly += svgLegendLine
		}
		canvas.Gend()
		y += sheetBlockHeight(s)
	}
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("failed to write plan SVG: %w", ew.err)
	}
	return nil
}

func sheetBlockHeight(s diagram.SheetView) float64 {
	return svgHeaderHeight + s.Diagram.Height + float64(len(diagram.Legend))*svgLegendLine + svgSheetGap
}

// sheetCaption is the second header line: dimensions, piece count and the
// zoom note for cropped sheets.
func sheetCaption(s diagram.SheetView) string {
	caption := s.Dimensions + " · " + s.PieceCount
	if s.Zoomed {
		caption += " " + diagram.ZoomedNote
	}
	return caption
}

func drawFrame(canvas *svg.SVG, d diagram.Diagram) {
	canvas.Roundrect(0, 0, d.Width, d.Height, 8, 8, shapeStyle(diagram.Style{
		Fill:        diagram.ColorBackground,
		Stroke:      diagram.ColorFrame,
		StrokeWidth: 1,
	}))
}

func drawElements(canvas *svg.SVG, elements []diagram.Element) {
	for _, e := range elements {
		switch e.Shape {
		case diagram.ShapeRect:
			if r := e.Style.CornerRadius; r > 0 {
				canvas.Roundrect(e.X, e.Y, e.W, e.H, r, r, shapeStyle(e.Style))
			} else {
				canvas.Rect(e.X, e.Y, e.W, e.H, shapeStyle(e.Style))
			}
		case diagram.ShapeCircle:
			canvas.Circle(e.X, e.Y, e.R, shapeStyle(e.Style))
		case diagram.ShapeLine:
			if len(e.Points) == 2 {
				canvas.Line(e.Points[0].X, e.Points[0].Y, e.Points[1].X, e.Points[1].Y, shapeStyle(e.Style))
			}
		case diagram.ShapePolyline:
			xs := make([]float64, len(e.Points))
			ys := make([]float64, len(e.Points))
			for i, p := range e.Points {
				xs[i], ys[i] = p.X, p.Y
			}
			canvas.Polyline(xs, ys, shapeStyle(e.Style))
		case diagram.ShapeText:
			canvas.Text(e.X, e.Y, e.Text, textStyle(e.Style))
		}
	}
}

// shapeStyle renders s as an inline CSS declaration list.
func shapeStyle(s diagram.Style) string {
	var decl []string
	decl = append(decl, paint("fill", s.Fill)...)
	decl = append(decl, paint("stroke", s.Stroke)...)
	if s.Stroke.A > 0 {
		decl = append(decl, "stroke-width:"+formatNum(s.StrokeWidth))
		if s.Dashed() {
			dash := make([]string, len(s.Dash))
			for i, d := range s.Dash {
				dash[i] = formatNum(d)
			}
			decl = append(decl, "stroke-dasharray:"+strings.Join(dash, ","))
		}
	}
	if s.Opacity > 0 && s.Opacity < 1 {
		decl = append(decl, "opacity:"+formatNum(s.Opacity))
	}
	return strings.Join(decl, ";")
}

func textStyle(s diagram.Style) string {
	decl := []string{
		"font-family:" + diagram.FontFamily,
		"font-size:" + formatNum(s.FontSize) + "px",
	}
	if s.Bold {
		decl = append(decl, "font-weight:bold")
	}
	if s.Anchor == diagram.AnchorMiddle {
		decl = append(decl, "text-anchor:middle")
	}
	if s.Stroke.A > 0 {
		// Halo strokes are painted under the glyph fill.
		decl = append(decl, "paint-order:stroke")
	}
	return strings.Join(decl, ";") + ";" + shapeStyle(s)
}

func paint(property string, c color.NRGBA) []string {
	if c.A == 0 {
		return []string{property + ":none"}
	}
	decl := []string{property + ":" + diagram.Hex(c)}
	if c.A < 255 {
		decl = append(decl, property+"-opacity:"+formatNum(float64(c.A)/255))
	}
	return decl
}

func formatNum(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}
