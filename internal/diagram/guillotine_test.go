package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/SlabView/internal/model"
)

func TestGuillotineLines_Deduplicates(t *testing.T) {
	assignments := []model.Assignment{
		cut("A", 500, 500, 0, 0, model.Rotation0, 1),
		cut("B", 500, 500, 500, 0, model.Rotation0, 2),
		cut("C", 500, 500, 0, 500, model.Rotation0, 3),
		cut("D", 500, 500, 500, 500, model.Rotation0, 4),
	}
	vp := Viewport{VW: 1000, VH: 1000, Scale: 0.35}

	lines := GuillotineLines(assignments, vp)
	assert.Equal(t, []GuillotineLine{
		{Axis: AxisVertical, Pos: 500},
		{Axis: AxisHorizontal, Pos: 500},
	}, lines)
}

func TestGuillotineLines_StrictlyInsideViewport(t *testing.T) {
	assignments := []model.Assignment{
		cut("A", 300, 600, 0, 0, model.Rotation0, 1),
		cut("B", 300, 200, 300, 0, model.Rotation0, 2),
	}
	vp := Viewport{VW: 600, VH: 600, Scale: 1}

	lines := GuillotineLines(assignments, vp)
	// A's bottom edge and B's right edge coincide with the viewport border.
	assert.Equal(t, []GuillotineLine{
		{Axis: AxisVertical, Pos: 300},
		{Axis: AxisHorizontal, Pos: 200},
	}, lines)
}

func TestGuillotineLines_RotationUsesFootprint(t *testing.T) {
	lines := GuillotineLines([]model.Assignment{
		cut("A", 100, 400, 0, 0, model.Rotation90, 1),
	}, Viewport{VW: 1000, VH: 1000, Scale: 1})
	assert.Equal(t, []GuillotineLine{
		{Axis: AxisVertical, Pos: 400},
		{Axis: AxisHorizontal, Pos: 100},
	}, lines)
}

func TestAxis_String(t *testing.T) {
	assert.Equal(t, "V", AxisVertical.String())
	assert.Equal(t, "H", AxisHorizontal.String())
}
