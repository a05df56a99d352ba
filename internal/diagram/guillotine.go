package diagram

import "github.com/piwi3910/SlabView/internal/model"

// Axis is the orientation of a guillotine cut line.
type Axis int

const (
	AxisVertical   Axis = iota // constant x, spans the viewport height
	AxisHorizontal             // constant y, spans the viewport width
)

func (a Axis) String() string {
	if a == AxisHorizontal {
		return "H"
	}
	return "V"
}

// GuillotineLine is a straight internal cut implied by a piece edge. It is
// comparable and used directly as a set key.
type GuillotineLine struct {
	Axis Axis    `json:"axis"`
	Pos  float64 `json:"pos"` // mm along the perpendicular axis
}

// GuillotineLines derives the cut lines implied by the right and bottom edge
// of every assignment, keeping only those strictly inside the viewport.
// Coincident lines are reported once, in first-seen order.
func GuillotineLines(assignments []model.Assignment, vp Viewport) []GuillotineLine {
	seen := make(map[GuillotineLine]struct{})
	var lines []GuillotineLine
	add := func(l GuillotineLine) {
		if _, ok := seen[l]; ok {
			return
		}
		seen[l] = struct{}{}
		lines = append(lines, l)
	}

	for _, a := range assignments {
		if rx := a.Right(); rx > vp.VX && rx < vp.Right() {
			add(GuillotineLine{Axis: AxisVertical, Pos: rx})
		}
		if by := a.Bottom(); by > vp.VY && by < vp.Bottom() {
			add(GuillotineLine{Axis: AxisHorizontal, Pos: by})
		}
	}
	return lines
}
