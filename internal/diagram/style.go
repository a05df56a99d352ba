package diagram

import (
	"fmt"
	"image/color"
	"math"
)

// Palette is the fill sequence for placed cuts, indexed by cutting order.
var Palette = []color.NRGBA{
	{R: 16, G: 185, B: 129, A: 255}, // emerald
	{R: 59, G: 130, B: 246, A: 255}, // blue
	{R: 139, G: 92, B: 246, A: 255}, // violet
	{R: 245, G: 158, B: 11, A: 255}, // amber
	{R: 239, G: 68, B: 68, A: 255},  // red
	{R: 6, G: 182, B: 212, A: 255},  // cyan
}

// Fixed drawing colours.
var (
	ColorSheetStroke   = color.NRGBA{R: 59, G: 130, B: 246, A: 255}
	ColorSheetFaint    = color.NRGBA{R: 147, G: 197, B: 253, A: 255}
	ColorSheetFill     = color.NRGBA{R: 239, G: 246, B: 255, A: 255}
	ColorViewport      = color.NRGBA{R: 148, G: 163, B: 184, A: 255}
	ColorDimension     = color.NRGBA{R: 99, G: 102, B: 241, A: 255}
	ColorBadge         = color.NRGBA{R: 245, G: 158, B: 11, A: 255}
	ColorWhite         = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	ColorDimOnCut      = color.NRGBA{R: 255, G: 255, B: 255, A: 217}
	ColorLabelHalo     = color.NRGBA{R: 0, G: 0, B: 0, A: 51}
	ColorCalloutLabel  = color.NRGBA{R: 31, G: 41, B: 55, A: 255}
	ColorCalloutDetail = color.NRGBA{R: 107, G: 114, B: 128, A: 255}
	ColorBackground    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	ColorFrame         = color.NRGBA{R: 229, G: 231, B: 235, A: 255}
	ColorNone          = color.NRGBA{}
)

// FontFamily is the font stack used for every text element.
const FontFamily = "system-ui, Arial, sans-serif"

// CutColor returns the palette colour for the cut at index in the sheet's
// assignment order.
func CutColor(index int) color.NRGBA {
	if index < 0 {
		index = -index
	}
	return Palette[index%len(Palette)]
}

// Hex formats c as #rrggbb, ignoring alpha.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// TextAnchor is the horizontal alignment of a text element at its anchor point.
type TextAnchor int

const (
	AnchorStart TextAnchor = iota
	AnchorMiddle
)

// Style holds the paint attributes of an element. A zero-alpha Fill or
// Stroke means the element is not filled or not stroked.
type Style struct {
	Fill         color.NRGBA
	Stroke       color.NRGBA
	StrokeWidth  float64
	Dash         []float64 // nil for a solid stroke
	Opacity      float64   // whole-element opacity, 1 for opaque
	CornerRadius float64
	FontSize     float64
	Bold         bool
	Anchor       TextAnchor
}

// Dashed reports whether the stroke has a dash pattern.
func (s Style) Dashed() bool {
	return len(s.Dash) > 0
}

// withAlpha returns c with its alpha replaced by opacity (0..1).
func withAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(opacity * 255))
	return c
}
