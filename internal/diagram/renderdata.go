package diagram

import (
	"image/color"
	"strconv"

	"github.com/piwi3910/SlabView/internal/model"
)

// Pixel thresholds for cut rendering.
const (
	MinCutPixels   = 14.0 // smallest drawn side of any cut
	MinLabelWidth  = 40.0 // narrower cuts get a callout instead of an inline label
	MinLabelHeight = 12.0 // compared against the floored height
	MinDimWidth    = 55.0 // inline dimension text needs at least this width...
	MinDimHeight   = 40.0 // ...and this height
)

// Point is a position in diagram pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CutRender is the screen-space form of one assignment.
type CutRender struct {
	Index      int              `json:"index"` // position in the sheet's assignment order
	Assignment model.Assignment `json:"assignment"`
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	W          float64          `json:"w"`
	H          float64          `json:"h"`
	Tiny       bool             `json:"tiny"`
	Fill       color.NRGBA      `json:"fill"`
	LabelText  string           `json:"label"`
	DimText    string           `json:"dim"`
}

// CenterY returns the vertical centre of the drawn rectangle.
func (c CutRender) CenterY() float64 {
	return c.Y + c.H/2
}

// RightMid returns the midpoint of the rectangle's right edge, where a
// callout connector starts.
func (c CutRender) RightMid() Point {
	return Point{X: c.X + c.W, Y: c.CenterY()}
}

// ShowsDimensions reports whether an inline label also gets the dimension line.
func (c CutRender) ShowsDimensions() bool {
	return !c.Tiny && c.W >= MinDimWidth && c.H >= MinDimHeight
}

// IsTiny reports whether a cut drawn at w×h px is too small for an inline
// label. Height only matters below MinLabelHeight, which the MinCutPixels
// floor never reaches, so in practice only the width triggers a callout.
func IsTiny(w, h float64) bool {
	return w < MinLabelWidth || h < MinLabelHeight
}

// BuildRenderData maps every assignment into diagram pixels. origin is the
// pixel position of the viewport's top-left corner.
func BuildRenderData(assignments []model.Assignment, vp Viewport, origin Point) []CutRender {
	cuts := make([]CutRender, 0, len(assignments))
	for i, a := range assignments {
		w := max(MinCutPixels, a.PlacedWidth()*vp.Scale)
		h := max(MinCutPixels, a.PlacedLength()*vp.Scale)
		cuts = append(cuts, CutRender{
			Index:      i,
			Assignment: a,
			X:          origin.X + (a.XPosition-vp.VX)*vp.Scale,
			Y:          origin.Y + (a.YPosition-vp.VY)*vp.Scale,
			W:          w,
			H:          h,
			Tiny:       IsTiny(w, h),
			Fill:       CutColor(i),
			LabelText:  a.CutLabel,
			DimText:    DimensionText(a),
		})
	}
	return cuts
}

// DimensionText returns the "W×Lmm" caption of a cut, with a rotation mark
// when the cut was turned.
func DimensionText(a model.Assignment) string {
	s := FormatMM(a.Width) + "×" + FormatMM(a.Length) + "mm"
	if a.Rotated() {
		s += " ↻"
	}
	return s
}

// FormatMM prints a millimetre value with the fewest digits that round-trip.
func FormatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
