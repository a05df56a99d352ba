package export

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SlabView/internal/diagram"
	"github.com/piwi3910/SlabView/internal/model"
)

func requireWellFormed(t *testing.T, data []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func TestWriteSheetSVG(t *testing.T) {
	plan := buildTestPlan()
	d := diagram.RenderSheet(plan.SheetPlans[0], 800)

	var buf bytes.Buffer
	require.NoError(t, WriteSheetSVG(&buf, d))
	out := buf.String()
	requireWellFormed(t, buf.Bytes())

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<title>Plywood 2440x1220</title>")
	assert.Contains(t, out, "fill:"+diagram.Hex(diagram.Palette[0]))
	assert.Contains(t, out, "Side Panel")
	assert.Contains(t, out, "2440 mm")
	assert.Equal(t, len(d.ElementsWithRole(diagram.RoleCut)), len(d.Cuts))

	texts := 0
	for _, e := range d.Elements {
		if e.Shape == diagram.ShapeText {
			texts++
		}
	}
	assert.Equal(t, texts, strings.Count(out, "<text"))
}

func TestWriteSheetSVG_Callouts(t *testing.T) {
	sheet := model.SheetPlan{
		SheetLabel:  "Offcut",
		SheetWidth:  2000,
		SheetLength: 2000,
		Assignments: []model.Assignment{{CutLabel: "Peg", Width: 5, Length: 5, XPosition: 1000, YPosition: 1000, SequenceNumber: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSheetSVG(&buf, diagram.RenderSheet(sheet, 800)))
	out := buf.String()
	requireWellFormed(t, buf.Bytes())

	assert.Equal(t, 1, strings.Count(out, "<polyline"))
	assert.Contains(t, out, "stroke-dasharray:3,3")
	assert.Contains(t, out, "5×5mm")
}

func TestWriteSheetSVG_EscapesText(t *testing.T) {
	sheet := model.SheetPlan{
		SheetLabel:  "Oak & <Ash>",
		SheetWidth:  1000,
		SheetLength: 1000,
		Assignments: []model.Assignment{{CutLabel: "A&B", Width: 800, Length: 800, SequenceNumber: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSheetSVG(&buf, diagram.RenderSheet(sheet, 800)))
	requireWellFormed(t, buf.Bytes())
	assert.Contains(t, buf.String(), "A&amp;B")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteSheetSVG_WriteError(t *testing.T) {
	d := diagram.RenderSheet(buildTestPlan().SheetPlans[0], 800)
	err := WriteSheetSVG(failingWriter{}, d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWritePlanSVG(t *testing.T) {
	view := diagram.RenderPlan(buildTestPlan(), 800)

	var buf bytes.Buffer
	require.NoError(t, WritePlanSVG(&buf, view))
	out := buf.String()
	requireWellFormed(t, buf.Bytes())

	assert.Contains(t, out, `id="sheet-1"`)
	assert.Contains(t, out, `id="sheet-2"`)
	assert.Contains(t, out, "Sheet 1: Plywood 2440x1220")
	assert.Contains(t, out, "Sheet 2: MDF 1200x600")
	assert.Contains(t, out, "Guillotine cut lines")
	assert.Contains(t, out, `clip-path="url(#frame-2)"`)
}

func TestWritePlanSVG_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WritePlanSVG(&buf, diagram.PlanView{}))
}

func TestShapeStyle(t *testing.T) {
	style := shapeStyle(diagram.Style{
		Stroke:      diagram.ColorDimension,
		StrokeWidth: 1,
		Dash:        []float64{5, 4},
		Opacity:     0.4,
	})
	assert.Equal(t, "fill:none;stroke:#6366f1;stroke-width:1;stroke-dasharray:5,4;opacity:0.4", style)

	assert.Equal(t, "fill:#ffffff;fill-opacity:0.851;stroke:none", shapeStyle(diagram.Style{Fill: diagram.ColorDimOnCut}))
}

func TestFormatNum(t *testing.T) {
	assert.Equal(t, "1", formatNum(1))
	assert.Equal(t, "0.35", formatNum(0.35))
	assert.Equal(t, "474", formatNum(474.0000001))
	assert.Equal(t, "0", formatNum(0))
}
