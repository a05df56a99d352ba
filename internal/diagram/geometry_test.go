package diagram

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SlabView/internal/model"
)

func cut(label string, w, l, x, y float64, rot model.Rotation, seq int) model.Assignment {
	return model.Assignment{
		CutLabel:       label,
		Width:          w,
		Length:         l,
		XPosition:      x,
		YPosition:      y,
		Rotation:       rot,
		SequenceNumber: seq,
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name        string
		w, l, width float64
		expected    float64
	}{
		{"height bound", 1220, 2440, 800, 350.0 / 2440},
		{"width bound", 3000, 600, 800, 680.0 / 3000},
		{"never magnified", 100, 100, 800, 1.0},
		{"degenerate sheet", 0, 0, 800, 1.0},
		{"narrow container", 1000, 1000, 50, 1.0 / 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, FitScale(tt.w, tt.l, tt.width), 1e-12)
		})
	}
}

func TestComputeViewport_EmptyIsFullSheet(t *testing.T) {
	vp := ComputeViewport(1220, 2440, nil, 800)
	assert.Equal(t, Viewport{VX: 0, VY: 0, VW: 1220, VH: 2440, Scale: FitScale(1220, 2440, 800)}, vp)
	assert.False(t, vp.Cropped)
}

func TestComputeViewport_SmallCutAtOrigin(t *testing.T) {
	vp := ComputeViewport(1220, 2440, []model.Assignment{cut("A", 100, 50, 0, 0, model.Rotation0, 1)}, 800)

	// Padding to the left and top is clamped away by the sheet edge.
	assert.Equal(t, 0.0, vp.VX)
	assert.Equal(t, 0.0, vp.VY)
	assert.InDelta(t, 135.0, vp.VW, 1e-9)
	assert.InDelta(t, 67.5, vp.VH, 1e-9)
	assert.True(t, vp.Cropped)
	assert.Equal(t, 2.0, vp.Scale, "cropped views may magnify up to 2x")
}

func TestComputeViewport_FullyTiledSheetNotCropped(t *testing.T) {
	assignments := []model.Assignment{
		cut("A", 500, 500, 0, 0, model.Rotation0, 1),
		cut("B", 500, 500, 500, 0, model.Rotation0, 2),
		cut("C", 500, 500, 0, 500, model.Rotation0, 3),
		cut("D", 500, 500, 500, 500, model.Rotation0, 4),
	}
	vp := ComputeViewport(1000, 1000, assignments, 800)

	assert.False(t, vp.Cropped)
	assert.Equal(t, Viewport{VX: 0, VY: 0, VW: 1000, VH: 1000, Scale: 0.35}, vp)
}

func TestComputeViewport_RotationSwapsFootprint(t *testing.T) {
	plain := ComputeViewport(2000, 2000, []model.Assignment{cut("A", 400, 100, 500, 500, model.Rotation0, 1)}, 800)
	rotated := ComputeViewport(2000, 2000, []model.Assignment{cut("A", 100, 400, 500, 500, model.Rotation90, 1)}, 800)
	assert.Equal(t, plain, rotated)
}

func TestComputeViewport_AspectCorrection(t *testing.T) {
	t.Run("flat cluster widened around its centre", func(t *testing.T) {
		vp := ComputeViewport(2000, 2000, []model.Assignment{cut("A", 1000, 10, 500, 1000, model.Rotation0, 1)}, 800)
		assert.InDelta(t, 150.0, vp.VX, 1e-9)
		assert.InDelta(t, 1700.0, vp.VW, 1e-9)
		assert.InDelta(t, 425.0, vp.VH, 1e-9)
		assert.InDelta(t, 1005.0, vp.VY+vp.VH/2, 1e-9, "stays centred on the cuts")
		assert.InDelta(t, 4.0, vp.Aspect(), 1e-9)
	})

	t.Run("growth blocked at the top edge moves downward", func(t *testing.T) {
		vp := ComputeViewport(2000, 2000, []model.Assignment{cut("A", 1000, 10, 500, 0, model.Rotation0, 1)}, 800)
		assert.Equal(t, 0.0, vp.VY)
		assert.InDelta(t, 425.0, vp.VH, 1e-9)
	})

	t.Run("tall cluster widened horizontally", func(t *testing.T) {
		vp := ComputeViewport(2000, 2000, []model.Assignment{cut("A", 10, 1000, 0, 500, model.Rotation0, 1)}, 800)
		assert.Equal(t, 0.0, vp.VX)
		assert.InDelta(t, 425.0, vp.VW, 1e-9)
		assert.InDelta(t, 4.0, vp.Aspect(), 1e-9)
	})

	t.Run("limited by a thin sheet", func(t *testing.T) {
		vp := ComputeViewport(4000, 100, []model.Assignment{cut("A", 4000, 10, 0, 0, model.Rotation0, 1)}, 800)
		assert.Equal(t, 0.0, vp.VY)
		assert.Equal(t, 100.0, vp.VH)
	})
}

func TestComputeViewport_DegenerateGeometry(t *testing.T) {
	vp := ComputeViewport(1000, 1000, []model.Assignment{cut("dot", 0, 0, 100, 100, model.Rotation0, 1)}, 800)
	assert.Greater(t, vp.VW, 0.0)
	assert.Greater(t, vp.VH, 0.0)
	assert.False(t, math.IsNaN(vp.Scale) || math.IsInf(vp.Scale, 0))
	assert.Greater(t, vp.Scale, 0.0)

	empty := ComputeViewport(0, 0, nil, 800)
	assert.Equal(t, 1.0, empty.VW)
	assert.Equal(t, 1.0, empty.VH)
}

func TestComputeViewport_ToleratesBoundarySlop(t *testing.T) {
	a := cut("edge", 500, 500, 500, 500, model.Rotation0, 1)
	a.Width += 1e-9
	vp := ComputeViewport(1000, 1000, []model.Assignment{a}, 800)
	assert.GreaterOrEqual(t, vp.Right()+1e-9, a.Right())
}

// randomSheet returns a sheet plan whose own aspect ratio stays within 4:1
// and whose cuts all lie inside it.
func randomSheet(rng *rand.Rand) model.SheetPlan {
	w := 300 + rng.Float64()*2700
	l := w * (0.3 + rng.Float64()*3.4)
	sp := model.SheetPlan{SheetLabel: "random", SheetWidth: w, SheetLength: l}

	n := 1 + rng.Intn(12)
	for i := 0; i < n; i++ {
		a := model.Assignment{
			CutLabel:       "c",
			Width:          1 + rng.Float64()*w/3,
			Length:         1 + rng.Float64()*l/3,
			SequenceNumber: i + 1,
		}
		if rng.Intn(2) == 1 && a.Width < l && a.Length < w {
			a.Rotation = model.Rotation90
		}
		a.XPosition = rng.Float64() * (w - a.PlacedWidth())
		a.YPosition = rng.Float64() * (l - a.PlacedLength())
		sp.Assignments = append(sp.Assignments, a)
	}
	return sp
}

func TestComputeViewport_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		sp := randomSheet(rng)
		width := 320 + rng.Float64()*1200
		vp := ComputeViewport(sp.SheetWidth, sp.SheetLength, sp.Assignments, width)

		for _, a := range sp.Assignments {
			require.GreaterOrEqual(t, a.XPosition, vp.VX-1e-9, "case %d", i)
			require.GreaterOrEqual(t, a.YPosition, vp.VY-1e-9, "case %d", i)
			require.LessOrEqual(t, a.Right(), vp.Right()+1e-9, "case %d", i)
			require.LessOrEqual(t, a.Bottom(), vp.Bottom()+1e-9, "case %d", i)
		}

		require.LessOrEqual(t, vp.Aspect(), maxAspect+1e-9, "case %d: %+v", i, vp)

		expectCropped := vp.VW < 0.75*sp.SheetWidth || vp.VH < 0.75*sp.SheetLength
		require.Equal(t, expectCropped, vp.Cropped, "case %d", i)

		require.Greater(t, vp.Scale, 0.0)
		if vp.Cropped {
			require.LessOrEqual(t, vp.Scale, 2.0)
		} else {
			require.LessOrEqual(t, vp.Scale, 1.0)
		}
	}
}
