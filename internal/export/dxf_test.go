package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/SlabView/internal/model"
)

func TestExportDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.dxf")
	require.NoError(t, ExportDXF(path, buildTestPlan()))

	drawing, err := dxf.Open(path)
	require.NoError(t, err)

	var polylines []*entity.LwPolyline
	var lines []*entity.Line
	for _, ent := range drawing.Entities() {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			polylines = append(polylines, e)
		case *entity.Line:
			lines = append(lines, e)
		}
	}

	// Two sheet outlines and four cuts.
	require.Len(t, polylines, 6)
	// Six guillotine lines on the first sheet, two on the second.
	assert.Len(t, lines, 8)

	// The first cut's lower-left corner after flipping Y.
	side := polylines[1]
	require.Len(t, side.Vertices, 4)
	assert.InDelta(t, 10.0, side.Vertices[0][0], 1e-6)
	assert.InDelta(t, 810.0, side.Vertices[0][1], 1e-6)
	assert.InDelta(t, 610.0, side.Vertices[1][0], 1e-6)

	// The second sheet starts after the first plus the gap.
	mdf := polylines[4]
	assert.InDelta(t, 2540.0, mdf.Vertices[0][0], 1e-6)
	assert.InDelta(t, 0.0, mdf.Vertices[0][1], 1e-6)

	// Vertical guillotine lines span the whole sheet.
	first := lines[0]
	assert.InDelta(t, 610.0, first.Start[0], 1e-6)
	assert.InDelta(t, 0.0, first.Start[1], 1e-6)
	assert.InDelta(t, 1220.0, first.End[1], 1e-6)
}

func TestExportDXF_RotatedCutFootprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotated.dxf")
	plan := model.NewCuttingPlan()
	plan.SheetPlans = []model.SheetPlan{{
		SheetLabel:  "Board",
		SheetWidth:  1000,
		SheetLength: 1000,
		Assignments: []model.Assignment{
			{CutLabel: "Rail", Width: 100, Length: 400, XPosition: 0, YPosition: 0, Rotation: model.Rotation90, SequenceNumber: 1},
		},
	}}
	require.NoError(t, ExportDXF(path, plan))

	drawing, err := dxf.Open(path)
	require.NoError(t, err)

	var rail *entity.LwPolyline
	count := 0
	for _, ent := range drawing.Entities() {
		if e, ok := ent.(*entity.LwPolyline); ok {
			count++
			if count == 2 {
				rail = e
			}
		}
	}
	require.NotNil(t, rail)
	// Rotated footprint is 400 wide and 100 tall, at the top of the sheet.
	assert.InDelta(t, 0.0, rail.Vertices[0][0], 1e-6)
	assert.InDelta(t, 900.0, rail.Vertices[0][1], 1e-6)
	assert.InDelta(t, 400.0, rail.Vertices[2][0], 1e-6)
	assert.InDelta(t, 1000.0, rail.Vertices[2][1], 1e-6)
}

func TestExportDXF_EmptyPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dxf")
	assert.Error(t, ExportDXF(path, model.NewCuttingPlan()))
}

func TestLabelTextHeight(t *testing.T) {
	assert.Equal(t, 40.0, labelTextHeight(600, 400))
	assert.Equal(t, 10.0, labelTextHeight(100, 50))
	assert.Equal(t, 5.0, labelTextHeight(10, 10))
}
