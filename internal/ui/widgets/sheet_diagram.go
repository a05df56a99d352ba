package widgets

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SlabView/internal/diagram"
)

const frameRadius = 8

// SheetDiagram draws one assembled sheet diagram at its natural pixel size.
// Anything outside the diagram frame is clipped, so a sheet outline that
// extends past a cropped viewport stops at the frame edge.
type SheetDiagram struct {
	widget.BaseWidget
	diagram diagram.Diagram
}

func NewSheetDiagram(d diagram.Diagram) *SheetDiagram {
	sd := &SheetDiagram{diagram: d}
	sd.ExtendBaseWidget(sd)
	return sd
}

// Diagram returns the diagram being shown.
func (sd *SheetDiagram) Diagram() diagram.Diagram {
	return sd.diagram
}

// SetDiagram replaces the diagram and redraws.
func (sd *SheetDiagram) SetDiagram(d diagram.Diagram) {
	sd.diagram = d
	sd.Refresh()
}

func (sd *SheetDiagram) CreateRenderer() fyne.WidgetRenderer {
	r := &sheetDiagramRenderer{sd: sd}
	r.rebuild()
	return r
}

type sheetDiagramRenderer struct {
	sd      *SheetDiagram
	objects []fyne.CanvasObject
}

func (r *sheetDiagramRenderer) rebuild() {
	d := r.sd.diagram
	frame := fyne.NewSize(float32(d.Width), float32(d.Height))
	r.objects = nil

	bg := canvas.NewRectangle(diagram.ColorBackground)
	bg.StrokeColor = diagram.ColorFrame
	bg.StrokeWidth = 1
	bg.CornerRadius = frameRadius
	bg.Resize(frame)
	r.objects = append(r.objects, bg)

	for _, e := range d.Elements {
		r.objects = append(r.objects, elementObjects(e, d.Width, d.Height)...)
	}
}

func (r *sheetDiagramRenderer) Layout(size fyne.Size) {}
func (r *sheetDiagramRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.sd)
}
func (r *sheetDiagramRenderer) Destroy()                     {}
func (r *sheetDiagramRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *sheetDiagramRenderer) MinSize() fyne.Size {
	return fyne.NewSize(float32(r.sd.diagram.Width), float32(r.sd.diagram.Height))
}

// elementObjects converts one diagram element into canvas objects clipped
// to a w×h frame.
func elementObjects(e diagram.Element, w, h float64) []fyne.CanvasObject {
	s := e.Style
	switch e.Shape {
	case diagram.ShapeRect:
		return rectObjects(e, w, h)

	case diagram.ShapeCircle:
		c := canvas.NewCircle(paint(s.Fill, s.Opacity))
		c.StrokeColor = paint(s.Stroke, s.Opacity)
		c.StrokeWidth = float32(s.StrokeWidth)
		c.Move(fyne.NewPos(float32(e.X-e.R), float32(e.Y-e.R)))
		c.Resize(fyne.NewSize(float32(2*e.R), float32(2*e.R)))
		return []fyne.CanvasObject{c}

	case diagram.ShapeLine, diagram.ShapePolyline:
		var out []fyne.CanvasObject
		for i := 1; i < len(e.Points); i++ {
			out = append(out, strokeSegment(e.Points[i-1], e.Points[i], s, w, h)...)
		}
		return out

	case diagram.ShapeText:
		return []fyne.CanvasObject{textObject(e)}
	}
	return nil
}

// rectObjects fills the clipped rectangle and strokes it. Dashed outlines
// are drawn side by side so each side can be clipped on its own.
func rectObjects(e diagram.Element, w, h float64) []fyne.CanvasObject {
	s := e.Style
	var out []fyne.CanvasObject

	x, y, rw, rh, ok := clipRect(e.X, e.Y, e.W, e.H, w, h)
	if !ok {
		return nil
	}
	solidStroke := s.Stroke.A > 0 && !s.Dashed()
	if s.Fill.A > 0 || solidStroke {
		r := canvas.NewRectangle(paint(s.Fill, s.Opacity))
		if solidStroke {
			r.StrokeColor = paint(s.Stroke, s.Opacity)
			r.StrokeWidth = float32(s.StrokeWidth)
		}
		r.CornerRadius = float32(s.CornerRadius)
		r.Move(fyne.NewPos(float32(x), float32(y)))
		r.Resize(fyne.NewSize(float32(rw), float32(rh)))
		out = append(out, r)
	}

	if s.Stroke.A > 0 && s.Dashed() {
		corners := []diagram.Point{
			{X: e.X, Y: e.Y},
			{X: e.X + e.W, Y: e.Y},
			{X: e.X + e.W, Y: e.Y + e.H},
			{X: e.X, Y: e.Y + e.H},
		}
		for i := range corners {
			out = append(out, strokeSegment(corners[i], corners[(i+1)%4], s, w, h)...)
		}
	}
	return out
}

// strokeSegment draws a-b, dashed if the style asks for it, clipped to the
// frame.
func strokeSegment(a, b diagram.Point, s diagram.Style, w, h float64) []fyne.CanvasObject {
	if s.Stroke.A == 0 {
		return nil
	}
	a, b, ok := clipSegment(a, b, w, h)
	if !ok {
		return nil
	}
	col := paint(s.Stroke, s.Opacity)
	var out []fyne.CanvasObject
	for _, seg := range dashSegments(a, b, s.Dash) {
		l := canvas.NewLine(col)
		l.StrokeWidth = float32(s.StrokeWidth)
		l.Position1 = fyne.NewPos(float32(seg[0].X), float32(seg[0].Y))
		l.Position2 = fyne.NewPos(float32(seg[1].X), float32(seg[1].Y))
		out = append(out, l)
	}
	return out
}

// textObject places text so that e.X, e.Y is on its baseline, at the start
// or the middle of the run.
func textObject(e diagram.Element) *canvas.Text {
	s := e.Style
	t := canvas.NewText(e.Text, paint(s.Fill, s.Opacity))
	t.TextSize = float32(s.FontSize)
	t.TextStyle = fyne.TextStyle{Bold: s.Bold}

	size, baseline := fyne.CurrentApp().Driver().RenderedTextSize(e.Text, t.TextSize, t.TextStyle, nil)
	x := float32(e.X)
	if s.Anchor == diagram.AnchorMiddle {
		x -= size.Width / 2
	}
	t.Move(fyne.NewPos(x, float32(e.Y)-baseline))
	return t
}

// paint applies a whole-element opacity to c. A zero opacity counts as
// opaque.
func paint(c color.NRGBA, opacity float64) color.Color {
	if c.A == 0 {
		return color.Transparent
	}
	if opacity <= 0 || opacity >= 1 {
		return c
	}
	c.A = uint8(math.Round(float64(c.A) * opacity))
	return c
}

// clipRect intersects a rectangle with the frame [0,w]×[0,h].
func clipRect(x, y, rw, rh, w, h float64) (float64, float64, float64, float64, bool) {
	x0, y0 := math.Max(x, 0), math.Max(y, 0)
	x1, y1 := math.Min(x+rw, w), math.Min(y+rh, h)
	if x1 <= x0 || y1 <= y0 {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1 - x0, y1 - y0, true
}

// clipSegment clips a-b to the frame [0,w]×[0,h] (Liang–Barsky).
func clipSegment(a, b diagram.Point, w, h float64) (diagram.Point, diagram.Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	for _, edge := range [4][2]float64{
		{-dx, a.X},
		{dx, w - a.X},
		{-dy, a.Y},
		{dy, h - a.Y},
	} {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return diagram.Point{X: a.X + t0*dx, Y: a.Y + t0*dy},
		diagram.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

// dashSegments splits a-b into the "on" runs of a dash pattern. A nil
// pattern yields the whole segment.
func dashSegments(a, b diagram.Point, dash []float64) [][2]diagram.Point {
	length := math.Hypot(b.X-a.X, b.Y-a.Y)
	period := 0.0
	for _, d := range dash {
		period += d
	}
	if len(dash) == 0 || period <= 0 || length == 0 {
		return [][2]diagram.Point{{a, b}}
	}

	at := func(dist float64) diagram.Point {
		f := dist / length
		return diagram.Point{X: a.X + (b.X-a.X)*f, Y: a.Y + (b.Y-a.Y)*f}
	}
	var out [][2]diagram.Point
	pos := 0.0
	for i := 0; pos < length; i++ {
		run := dash[i%len(dash)]
		if i%2 == 0 {
			out = append(out, [2]diagram.Point{at(pos), at(math.Min(pos+run, length))})
		}
		pos += run
	}
	return out
}
