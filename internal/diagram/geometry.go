// Package diagram turns a cutting plan into per-sheet vector diagrams.
//
// The layout is a pure function of the sheet geometry and the width of the
// container it will be drawn into: a viewport is chosen around the placed
// cuts, each cut is mapped to screen space, labels that do not fit inside
// their cut are moved to a side gutter, and the result is assembled into an
// ordered list of drawing elements that the export and ui packages paint.
package diagram

import (
	"math"

	"github.com/piwi3910/SlabView/internal/model"
)

// Scale budgets in pixels.
const (
	fullViewMargin    = 120.0 // horizontal margin for an uncropped sheet
	fullViewMaxHeight = 350.0
	fullViewMaxScale  = 1.0
	croppedViewMargin = 140.0 // wider margin leaves room for the callout gutter
	croppedMaxHeight  = 260.0
	croppedMaxScale   = 2.0
	minUsableWidth    = 1.0
	minExtent         = 1.0 // mm, substituted for degenerate geometry
	viewportPadFrac   = 0.35
	maxAspect         = 4.0
	croppedThreshold  = 0.75
)

// Viewport is the region of a sheet that is actually drawn, in mm, with the
// scale (px per mm) chosen for it.
type Viewport struct {
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	VW      float64 `json:"vw"`
	VH      float64 `json:"vh"`
	Scale   float64 `json:"scale"`
	Cropped bool    `json:"cropped"`
}

// Right returns the viewport's right edge in mm.
func (v Viewport) Right() float64 { return v.VX + v.VW }

// Bottom returns the viewport's bottom edge in mm.
func (v Viewport) Bottom() float64 { return v.VY + v.VH }

// PixelWidth returns the rendered viewport width.
func (v Viewport) PixelWidth() float64 { return v.VW * v.Scale }

// PixelHeight returns the rendered viewport height.
func (v Viewport) PixelHeight() float64 { return v.VH * v.Scale }

// Aspect returns the larger of VW/VH and VH/VW.
func (v Viewport) Aspect() float64 {
	if v.VW <= 0 || v.VH <= 0 {
		return math.Inf(1)
	}
	return math.Max(v.VW/v.VH, v.VH/v.VW)
}

// FitScale returns the scale at which a whole sheet fits the container width
// (less a fixed margin) and a fixed maximum height. A full sheet is never
// magnified beyond 1 px per mm.
func FitScale(sheetWidth, sheetLength, containerWidth float64) float64 {
	return fitWithin(sheetWidth, sheetLength, containerWidth-fullViewMargin, fullViewMaxHeight, fullViewMaxScale)
}

func fitWithin(w, h, usableWidth, maxHeight, maxScale float64) float64 {
	w = positiveExtent(w)
	h = positiveExtent(h)
	usableWidth = math.Max(usableWidth, minUsableWidth)
	return math.Min(math.Min(usableWidth/w, maxHeight/h), maxScale)
}

// positiveExtent replaces zero, negative and NaN extents with the 1 mm minimum.
func positiveExtent(v float64) float64 {
	if !(v > 0) {
		return minExtent
	}
	return v
}

// bbox is an axis-aligned box in sheet millimetres.
type bbox struct {
	minX, minY, maxX, maxY float64
}

func footprintBounds(assignments []model.Assignment) bbox {
	b := bbox{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	for _, a := range assignments {
		b.minX = math.Min(b.minX, a.XPosition)
		b.minY = math.Min(b.minY, a.YPosition)
		b.maxX = math.Max(b.maxX, a.Right())
		b.maxY = math.Max(b.maxY, a.Bottom())
	}
	return b
}

// ComputeViewport picks the region of the sheet to draw. With no cuts the
// whole sheet is shown. Otherwise the cuts' bounding box is padded by 35% on
// every side, clamped to the sheet, and its shorter side is widened until the
// aspect ratio is at most 4:1 so thin clusters stay legible.
func ComputeViewport(sheetWidth, sheetLength float64, assignments []model.Assignment, containerWidth float64) Viewport {
	sheetWidth = positiveExtent(sheetWidth)
	sheetLength = positiveExtent(sheetLength)

	if len(assignments) == 0 {
		return Viewport{
			VX:    0,
			VY:    0,
			VW:    sheetWidth,
			VH:    sheetLength,
			Scale: FitScale(sheetWidth, sheetLength, containerWidth),
		}
	}

	b := footprintBounds(assignments)
	cutsW := b.maxX - b.minX
	if !(cutsW > 0) {
		cutsW = minExtent
	}
	cutsH := b.maxY - b.minY
	if !(cutsH > 0) {
		cutsH = minExtent
	}

	// Limits normally equal the sheet; they widen only when a footprint pokes
	// past the sheet edge by floating point slop, so no cut is ever cut off.
	loX := math.Min(0, b.minX)
	loY := math.Min(0, b.minY)
	hiX := math.Max(sheetWidth, b.maxX)
	hiY := math.Max(sheetLength, b.maxY)

	vx := math.Max(loX, b.minX-cutsW*viewportPadFrac)
	vy := math.Max(loY, b.minY-cutsH*viewportPadFrac)
	vr := math.Min(hiX, b.maxX+cutsW*viewportPadFrac)
	vb := math.Min(hiY, b.maxY+cutsH*viewportPadFrac)
	vw := math.Max(vr-vx, minExtent)
	vh := math.Max(vb-vy, minExtent)

	if vw/vh > maxAspect {
		vy, vh = widenSpan(vy, vh, vw/maxAspect, loY, hiY)
	} else if vh/vw > maxAspect {
		vx, vw = widenSpan(vx, vw, vh/maxAspect, loX, hiX)
	}

	cropped := vw < sheetWidth*croppedThreshold || vh < sheetLength*croppedThreshold

	var scale float64
	if cropped {
		scale = fitWithin(vw, vh, containerWidth-croppedViewMargin, croppedMaxHeight, croppedMaxScale)
	} else {
		scale = FitScale(vw, vh, containerWidth)
	}

	return Viewport{VX: vx, VY: vy, VW: vw, VH: vh, Scale: scale, Cropped: cropped}
}

// widenSpan grows [start, start+size) to target around its centre, keeping it
// inside [lo, hi]. Growth blocked by one limit is moved to the other side;
// if the limits are narrower than target the span becomes [lo, hi].
func widenSpan(start, size, target, lo, hi float64) (float64, float64) {
	if target >= hi-lo {
		return lo, hi - lo
	}
	center := start + size/2
	s := center - target/2
	if s < lo {
		s = lo
	}
	if s+target > hi {
		s = hi - target
	}
	return s, target
}
