package diagram

import (
	"math"
	"sort"
)

// CalloutRowHeight is the minimum vertical distance between two callout labels.
const CalloutRowHeight = 22.0

// Callout is the resolved gutter position of a tiny cut's label.
type Callout struct {
	CutIndex   int     `json:"cut_index"`
	PreferredY float64 `json:"preferred_y"`
	Y          float64 `json:"y"`
	Clamped    bool    `json:"clamped"` // pushed back up to the gutter's bottom limit
}

// GutterBounds limits where callout labels may be placed vertically.
type GutterBounds struct {
	Top    float64
	Bottom float64
}

// CalloutResolver hands out gutter rows in a single greedy pass. Each claim
// starts at the preferred y and is bumped downward past every already
// claimed row closer than CalloutRowHeight; nothing claimed earlier moves.
type CalloutResolver struct {
	bounds  GutterBounds
	claimed []float64 // kept sorted ascending
}

func NewCalloutResolver(bounds GutterBounds) *CalloutResolver {
	return &CalloutResolver{bounds: bounds}
}

// Claim reserves a row as close below preferredY as the already claimed rows
// allow. The second result reports whether the row had to be clamped to the
// bottom limit, in which case it may coincide with another row.
func (r *CalloutResolver) Claim(preferredY float64) (float64, bool) {
	y := math.Max(r.bounds.Top, preferredY)
	for _, s := range r.claimed {
		if math.Abs(s-y) < CalloutRowHeight {
			y = s + CalloutRowHeight
		}
	}

	clamped := false
	if y > r.bounds.Bottom {
		y = r.bounds.Bottom
		clamped = true
	}

	i := sort.SearchFloat64s(r.claimed, y)
	r.claimed = append(r.claimed, 0)
	copy(r.claimed[i+1:], r.claimed[i:])
	r.claimed[i] = y
	return y, clamped
}

// Claimed returns the claimed rows in ascending order.
func (r *CalloutResolver) Claimed() []float64 {
	out := make([]float64, len(r.claimed))
	copy(out, r.claimed)
	return out
}

// ResolveCallouts places the labels of all tiny cuts in the side gutter.
// Cuts are processed top to bottom by their vertical centre, ties keeping
// assignment order. The returned callouts are in that processing order.
func ResolveCallouts(cuts []CutRender, bounds GutterBounds) []Callout {
	var tiny []CutRender
	for _, c := range cuts {
		if c.Tiny {
			tiny = append(tiny, c)
		}
	}
	sort.SliceStable(tiny, func(i, j int) bool {
		return tiny[i].CenterY() < tiny[j].CenterY()
	})

	resolver := NewCalloutResolver(bounds)
	callouts := make([]Callout, 0, len(tiny))
	for _, c := range tiny {
		y, clamped := resolver.Claim(c.CenterY())
		callouts = append(callouts, Callout{
			CutIndex:   c.Index,
			PreferredY: c.CenterY(),
			Y:          y,
			Clamped:    clamped,
		})
	}
	return callouts
}
