package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"

	"github.com/piwi3910/SlabView/internal/export"
	"github.com/piwi3910/SlabView/internal/model"
)

func TestImportDXF_RoundTripsExportedPlan(t *testing.T) {
	plan := model.NewCuttingPlan()
	plan.SheetPlans = []model.SheetPlan{
		{
			SheetID: "S1", SheetLabel: "Plywood", SheetWidth: 2440, SheetLength: 1220,
			Assignments: []model.Assignment{
				{CutLabel: "Side Panel", Width: 600, Length: 400, XPosition: 10, YPosition: 10, SequenceNumber: 1},
				{CutLabel: "Shelf", Width: 400, Length: 300, XPosition: 10, YPosition: 420, Rotation: model.Rotation90, SequenceNumber: 2},
			},
		},
		{
			SheetID: "S2", SheetLabel: "MDF", SheetWidth: 1200, SheetLength: 600,
			Assignments: []model.Assignment{
				{CutLabel: "Back Panel", Width: 800, Length: 500, XPosition: 10, YPosition: 10, SequenceNumber: 1},
			},
		},
	}
	path := filepath.Join(t.TempDir(), "plan.dxf")
	require.NoError(t, export.ExportDXF(path, plan))

	result := ImportDXF(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Plan.SheetPlans, 2)

	first := result.Plan.SheetPlans[0]
	assert.Equal(t, "S1", first.SheetID)
	assert.InDelta(t, 2440, first.SheetWidth, 1e-6)
	assert.InDelta(t, 1220, first.SheetLength, 1e-6)
	require.Len(t, first.Assignments, 2)

	side := first.Assignments[0]
	assert.InDelta(t, 600, side.Width, 1e-6)
	assert.InDelta(t, 400, side.Length, 1e-6)
	assert.InDelta(t, 10, side.XPosition, 1e-6)
	assert.InDelta(t, 10, side.YPosition, 1e-6)

	// Rotation is not recoverable: the shelf comes back as its placed footprint.
	shelf := first.Assignments[1]
	assert.InDelta(t, 300, shelf.Width, 1e-6)
	assert.InDelta(t, 400, shelf.Length, 1e-6)
	assert.InDelta(t, 420, shelf.YPosition, 1e-6)
	assert.False(t, shelf.Rotated())

	second := result.Plan.SheetPlans[1]
	assert.Equal(t, "S2", second.SheetID)
	assert.InDelta(t, 1200, second.SheetWidth, 1e-6)
	require.Len(t, second.Assignments, 1)
	assert.InDelta(t, 10, second.Assignments[0].XPosition, 1e-6)
	assert.InDelta(t, 10, second.Assignments[0].YPosition, 1e-6)

	assert.InDelta(t, first.WasteArea+second.WasteArea, result.Plan.TotalWaste, 1e-6)
}

func TestImportDXF_LineChains(t *testing.T) {
	d := dxf.NewDrawing()
	square := func(x, y, s float64) {
		_, _ = d.Line(x, y, 0, x+s, y, 0)
		_, _ = d.Line(x+s, y, 0, x+s, y+s, 0)
		_, _ = d.Line(x+s, y+s, 0, x, y+s, 0)
		_, _ = d.Line(x, y+s, 0, x, y, 0)
	}
	square(0, 0, 1000)
	square(100, 600, 300)
	// A lone cut line does not close and is ignored.
	_, _ = d.Line(500, 0, 0, 500, 1000, 0)

	path := filepath.Join(t.TempDir(), "lines.dxf")
	require.NoError(t, d.SaveAs(path))

	result := ImportDXF(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Plan.SheetPlans, 1)
	sp := result.Plan.SheetPlans[0]
	require.Len(t, sp.Assignments, 1)
	a := sp.Assignments[0]
	assert.InDelta(t, 100, a.XPosition, 1e-6)
	assert.InDelta(t, 100, a.YPosition, 1e-6)
	assert.InDelta(t, 300, a.Width, 1e-6)
	assert.Equal(t, 1, a.SequenceNumber)
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF("/nonexistent/plan.dxf")
	assert.NotEmpty(t, result.Errors)
	assert.False(t, result.OK())
}

func TestClassifyOutlines_LabelsFromText(t *testing.T) {
	boxes := []rect{
		{minX: 0, minY: 0, maxX: 1000, maxY: 500},
		{minX: 0, minY: 300, maxX: 200, maxY: 500},
		{minX: 300, minY: 300, maxX: 500, maxY: 500},
	}
	texts := []dxfText{
		{at: point{X: 350, Y: 400}, value: "4 Drawer Front"},
		{at: point{X: 50, Y: 400}, value: "Plinth"},
	}

	sheets, _ := classifyOutlines(boxes, texts)
	require.Len(t, sheets, 1)
	cuts := sheets[0].Assignments
	require.Len(t, cuts, 2)

	assert.Equal(t, "Plinth", cuts[0].CutLabel)
	assert.Equal(t, "Drawer Front", cuts[1].CutLabel)
	assert.Equal(t, 4, cuts[1].SequenceNumber)
	// The unnumbered cut continues after the highest given number.
	assert.Equal(t, 5, cuts[0].SequenceNumber)
}

func TestClassifyOutlines_SkipsEmptyOutlines(t *testing.T) {
	boxes := []rect{
		{minX: 0, minY: 0, maxX: 100, maxY: 100},
		{minX: 200, minY: 0, maxX: 500, maxY: 300},
		{minX: 210, minY: 10, maxX: 260, maxY: 60},
	}
	sheets, warnings := classifyOutlines(boxes, nil)
	require.Len(t, sheets, 1)
	assert.InDelta(t, 300, sheets[0].SheetWidth, 1e-9)
	assert.InDelta(t, 10, sheets[0].Assignments[0].XPosition, 1e-9)
	assert.InDelta(t, 240, sheets[0].Assignments[0].YPosition, 1e-9)
	assert.NotEmpty(t, warnings)
}

func TestParseCutText(t *testing.T) {
	tests := []struct {
		in    string
		seq   int
		label string
	}{
		{"3 Side Panel", 3, "Side Panel"},
		{"  12   Top ", 12, "Top"},
		{"Shelf", 0, "Shelf"},
		{"0 Base", 0, "0 Base"},
		{"7", 7, ""},
	}
	for _, tt := range tests {
		seq, label := parseCutText(tt.in)
		assert.Equal(t, tt.seq, seq, tt.in)
		assert.Equal(t, tt.label, label, tt.in)
	}
}

func TestChainSegments(t *testing.T) {
	segs := []segment{
		{start: point{0, 0}, end: point{10, 0}},
		{start: point{10, 10}, end: point{10, 0}}, // reversed
		{start: point{10, 10}, end: point{0, 10}},
		{start: point{0, 10}, end: point{0, 0}},
		{start: point{50, 50}, end: point{60, 60}},
	}
	outlines := chainSegments(segs, 0.01)
	require.Len(t, outlines, 1)
	assert.Len(t, outlines[0], 4)
	assert.True(t, isAxisAlignedRect(outlines[0]))
}

func TestIsAxisAlignedRect(t *testing.T) {
	assert.True(t, isAxisAlignedRect([]point{{0, 0}, {5, 0}, {5, 3}, {0, 3}}))
	assert.False(t, isAxisAlignedRect([]point{{0, 0}, {5, 1}, {5, 3}, {0, 3}}))
	assert.False(t, isAxisAlignedRect([]point{{0, 0}, {5, 0}, {0, 3}}))
}
