package diagram

import (
	"math"
	"strconv"

	"github.com/piwi3910/SlabView/internal/model"
)

// Frame paddings around the viewport, in pixels.
const (
	PadLeft   = 14.0
	PadTop    = 14.0
	PadBottom = 44.0  // room for the dimension line
	PadRight  = 110.0 // callout gutter

	calloutGap       = 8.0 // viewport edge to callout text column
	calloutElbow     = 6.0 // elbow sits this far left of the text column
	calloutTopMargin = 8.0
	calloutBottomGap = 10.0
	dimLineOffset    = 22.0
	dimTickHalf      = 4.0
	maxBadgeRadius   = 12.0
	minBadgeRadius   = 7.0
	badgeFraction    = 0.42
)

// Shape is the primitive an Element draws.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeCircle
	ShapeLine
	ShapePolyline
	ShapeText
)

// Role says what an element depicts so renderers can style or hit-test it.
type Role string

const (
	RoleSheet            Role = "sheet"
	RoleViewport         Role = "viewport"
	RoleGuillotine       Role = "guillotine"
	RoleCut              Role = "cut"
	RoleBadge            Role = "badge"
	RoleBadgeNumber      Role = "badge-number"
	RoleLabel            Role = "label"
	RoleDimension        Role = "dimension"
	RoleConnector        Role = "connector"
	RoleAnchor           Role = "anchor"
	RoleCalloutLabel     Role = "callout-label"
	RoleCalloutDimension Role = "callout-dimension"
	RoleSheetBorder      Role = "sheet-border"
	RoleDimensionLine    Role = "dimension-line"
	RoleDimensionLabel   Role = "dimension-label"
)

// Element is one drawing primitive in diagram pixels.
//
//   - ShapeRect: X, Y top-left; W, H size
//   - ShapeCircle: X, Y centre; R radius
//   - ShapeLine, ShapePolyline: Points
//   - ShapeText: X, Y anchor on the baseline; Text
type Element struct {
	Shape    Shape
	Role     Role
	CutIndex int // assignment index, -1 for sheet-level elements
	X, Y     float64
	W, H     float64
	R        float64
	Points   []Point
	Text     string
	Style    Style
}

// Diagram is the assembled drawing of one sheet plan. Elements are in paint
// order, back to front.
type Diagram struct {
	SheetLabel string
	Width      float64
	Height     float64
	Viewport   Viewport
	Cuts       []CutRender
	Callouts   []Callout
	Lines      []GuillotineLine
	Elements   []Element
}

// CalloutFor returns the resolved callout of the cut at index.
func (d Diagram) CalloutFor(index int) (Callout, bool) {
	for _, c := range d.Callouts {
		if c.CutIndex == index {
			return c, true
		}
	}
	return Callout{}, false
}

// ElementsWithRole returns the elements playing role, in paint order.
func (d Diagram) ElementsWithRole(role Role) []Element {
	var out []Element
	for _, e := range d.Elements {
		if e.Role == role {
			out = append(out, e)
		}
	}
	return out
}

// RenderSheet lays out one sheet plan for a container containerWidth pixels
// wide. The result depends only on its arguments.
func RenderSheet(sheet model.SheetPlan, containerWidth float64) Diagram {
	vp := ComputeViewport(sheet.SheetWidth, sheet.SheetLength, sheet.Assignments, containerWidth)

	sw := vp.PixelWidth()
	sh := vp.PixelHeight()
	d := Diagram{
		SheetLabel: sheet.SheetLabel,
		Width:      sw + PadLeft + PadRight,
		Height:     sh + PadTop + PadBottom,
		Viewport:   vp,
	}

	toX := func(mm float64) float64 { return PadLeft + (mm-vp.VX)*vp.Scale }
	toY := func(mm float64) float64 { return PadTop + (mm-vp.VY)*vp.Scale }

	d.Cuts = BuildRenderData(sheet.Assignments, vp, Point{X: PadLeft, Y: PadTop})
	d.Callouts = ResolveCallouts(d.Cuts, GutterBounds{
		Top:    PadTop + calloutTopMargin,
		Bottom: d.Height - calloutBottomGap,
	})
	d.Lines = GuillotineLines(sheet.Assignments, vp)

	sheetRect := Element{
		Shape:    ShapeRect,
		CutIndex: -1,
		X:        toX(0),
		Y:        toY(0),
		W:        positiveExtent(sheet.SheetWidth) * vp.Scale,
		H:        positiveExtent(sheet.SheetLength) * vp.Scale,
	}
	outline := sheetOutlineStyle(vp.Cropped)

	bg := sheetRect
	bg.Role = RoleSheet
	bg.Style = outline
	bg.Style.Fill = ColorSheetFill
	d.add(bg)

	if vp.Cropped {
		d.add(Element{
			Shape:    ShapeRect,
			Role:     RoleViewport,
			CutIndex: -1,
			X:        PadLeft,
			Y:        PadTop,
			W:        sw,
			H:        sh,
			Style: Style{
				Stroke:       ColorViewport,
				StrokeWidth:  1,
				Dash:         []float64{3, 3},
				Opacity:      1,
				CornerRadius: 1,
			},
		})
	}

	for _, l := range d.Lines {
		var p1, p2 Point
		if l.Axis == AxisVertical {
			x := toX(l.Pos)
			p1, p2 = Point{X: x, Y: PadTop}, Point{X: x, Y: PadTop + sh}
		} else {
			y := toY(l.Pos)
			p1, p2 = Point{X: PadLeft, Y: y}, Point{X: PadLeft + sw, Y: y}
		}
		d.add(Element{
			Shape:    ShapeLine,
			Role:     RoleGuillotine,
			CutIndex: -1,
			Points:   []Point{p1, p2},
			Style: Style{
				Stroke:      ColorDimension,
				StrokeWidth: 1,
				Dash:        []float64{5, 4},
				Opacity:     0.4,
			},
		})
	}

	calloutX := PadLeft + sw + calloutGap
	for _, c := range d.Cuts {
		d.addCut(c, calloutX)
	}

	border := sheetRect
	border.Role = RoleSheetBorder
	border.Style = outline
	d.add(border)

	d.addDimensionLine(sheet.SheetWidth, sw, sh)
	return d
}

func sheetOutlineStyle(cropped bool) Style {
	if cropped {
		return Style{
			Stroke:       ColorSheetFaint,
			StrokeWidth:  1,
			Dash:         []float64{6, 4},
			Opacity:      1,
			CornerRadius: 2,
		}
	}
	return Style{Stroke: ColorSheetStroke, StrokeWidth: 2, Opacity: 1, CornerRadius: 2}
}

func (d *Diagram) add(e Element) {
	d.Elements = append(d.Elements, e)
}

// BadgeRadius sizes the sequence badge to the drawn cut.
func BadgeRadius(w, h float64) float64 {
	return math.Max(minBadgeRadius, math.Min(maxBadgeRadius, math.Min(w*badgeFraction, h*badgeFraction)))
}

func (d *Diagram) addCut(c CutRender, calloutX float64) {
	d.add(Element{
		Shape:    ShapeRect,
		Role:     RoleCut,
		CutIndex: c.Index,
		X:        c.X,
		Y:        c.Y,
		W:        c.W,
		H:        c.H,
		Style: Style{
			Fill:         withAlpha(c.Fill, 0.88),
			Stroke:       ColorWhite,
			StrokeWidth:  1.5,
			Opacity:      1,
			CornerRadius: 2,
		},
	})

	br := BadgeRadius(c.W, c.H)
	bx := c.X + br + 1
	by := c.Y + br + 1
	d.add(Element{
		Shape:    ShapeCircle,
		Role:     RoleBadge,
		CutIndex: c.Index,
		X:        bx,
		Y:        by,
		R:        br,
		Style:    Style{Fill: ColorBadge, Stroke: ColorWhite, StrokeWidth: 1.5, Opacity: 1},
	})
	d.add(Element{
		Shape:    ShapeText,
		Role:     RoleBadgeNumber,
		CutIndex: c.Index,
		X:        bx,
		Y:        by + br*0.38,
		Text:     strconv.Itoa(c.Assignment.SequenceNumber),
		Style: Style{
			Fill:     ColorWhite,
			Opacity:  1,
			FontSize: math.Max(8, br*0.9),
			Bold:     true,
			Anchor:   AnchorMiddle,
		},
	})

	if !c.Tiny {
		d.addInlineLabel(c)
		return
	}

	co, ok := d.CalloutFor(c.Index)
	if !ok {
		return
	}
	anchor := c.RightMid()
	elbowX := calloutX - calloutElbow
	d.add(Element{
		Shape:    ShapePolyline,
		Role:     RoleConnector,
		CutIndex: c.Index,
		Points: []Point{
			anchor,
			{X: elbowX, Y: anchor.Y},
			{X: elbowX, Y: co.Y},
			{X: calloutX, Y: co.Y},
		},
		Style: Style{Stroke: c.Fill, StrokeWidth: 1, Opacity: 0.75},
	})
	d.add(Element{
		Shape:    ShapeCircle,
		Role:     RoleAnchor,
		CutIndex: c.Index,
		X:        anchor.X,
		Y:        anchor.Y,
		R:        2,
		Style:    Style{Fill: c.Fill, Opacity: 1},
	})
	d.add(Element{
		Shape:    ShapeText,
		Role:     RoleCalloutLabel,
		CutIndex: c.Index,
		X:        calloutX + 2,
		Y:        co.Y - 3,
		Text:     c.LabelText,
		Style:    Style{Fill: ColorCalloutLabel, Opacity: 1, FontSize: 9, Bold: true},
	})
	d.add(Element{
		Shape:    ShapeText,
		Role:     RoleCalloutDimension,
		CutIndex: c.Index,
		X:        calloutX + 2,
		Y:        co.Y + 8,
		Text:     c.DimText,
		Style:    Style{Fill: ColorCalloutDetail, Opacity: 1, FontSize: 8},
	})
}

func (d *Diagram) addInlineLabel(c CutRender) {
	lx := c.X + c.W/2
	ly := c.Y + c.H/2
	showDim := c.ShowsDimensions()

	labelY := ly + 4
	if showDim {
		labelY = ly - 5
	}
	d.add(Element{
		Shape:    ShapeText,
		Role:     RoleLabel,
		CutIndex: c.Index,
		X:        lx,
		Y:        labelY,
		Text:     c.LabelText,
		Style: Style{
			Fill:        ColorWhite,
			Stroke:      ColorLabelHalo,
			StrokeWidth: 2,
			Opacity:     1,
			FontSize:    10,
			Bold:        true,
			Anchor:      AnchorMiddle,
		},
	})
	if !showDim {
		return
	}
	d.add(Element{
		Shape:    ShapeText,
		Role:     RoleDimension,
		CutIndex: c.Index,
		X:        lx,
		Y:        ly + 9,
		Text:     c.DimText,
		Style:    Style{Fill: ColorDimOnCut, Opacity: 1, FontSize: 8, Anchor: AnchorMiddle},
	})
}

func (d *Diagram) addDimensionLine(sheetWidth, sw, sh float64) {
	y := PadTop + sh + dimLineOffset
	lineStyle := Style{Stroke: ColorDimension, StrokeWidth: 1, Opacity: 1}
	for _, pts := range [][]Point{
		{{X: PadLeft, Y: y}, {X: PadLeft + sw, Y: y}},
		{{X: PadLeft, Y: y - dimTickHalf}, {X: PadLeft, Y: y + dimTickHalf}},
		{{X: PadLeft + sw, Y: y - dimTickHalf}, {X: PadLeft + sw, Y: y + dimTickHalf}},
	} {
		d.add(Element{Shape: ShapeLine, Role: RoleDimensionLine, CutIndex: -1, Points: pts, Style: lineStyle})
	}
	d.add(Element{
		Shape:    ShapeText,
		Role:     RoleDimensionLabel,
		CutIndex: -1,
		X:        PadLeft + sw/2,
		Y:        y + 12,
		Text:     FormatMM(sheetWidth) + " mm",
		Style:    Style{Fill: ColorDimension, Opacity: 1, FontSize: 10, Anchor: AnchorMiddle},
	})
}
