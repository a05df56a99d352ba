package export

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SlabView/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	if err := ExportLabels(path, buildTestPlan()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info := requireNonEmptyFile(t, path)
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	if err := ExportLabels(path, model.NewCuttingPlan()); err == nil {
		t.Fatal("expected error for empty plan, got nil")
	}
}

func TestExportLabels_NoAssignments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "no_assignments.pdf")

	plan := model.NewCuttingPlan()
	plan.SheetPlans = []model.SheetPlan{{SheetID: "s1", SheetLabel: "Board", SheetWidth: 1000, SheetLength: 500}}

	if err := ExportLabels(path, plan); err == nil {
		t.Fatal("expected error for plan with no assignments, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestPlan())

	if len(labels) != 4 {
		t.Fatalf("expected 4 labels, got %d", len(labels))
	}

	if labels[0].CutLabel != "Side Panel" {
		t.Errorf("expected first label to be 'Side Panel', got %q", labels[0].CutLabel)
	}
	if labels[0].Width != 600 || labels[0].Length != 400 {
		t.Errorf("wrong dimensions: got %.0fx%.0f, want 600x400", labels[0].Width, labels[0].Length)
	}
	if labels[0].SheetIndex != 1 || labels[0].Sequence != 1 {
		t.Errorf("expected sheet 1 seq 1, got sheet %d seq %d", labels[0].SheetIndex, labels[0].Sequence)
	}
	if labels[0].Rotated {
		t.Error("expected first label not rotated")
	}

	if !labels[2].Rotated {
		t.Error("expected third label to be rotated")
	}

	if labels[3].SheetIndex != 2 || labels[3].SheetLabel != "MDF 1200x600" {
		t.Errorf("expected fourth label on sheet 2 (MDF 1200x600), got %d (%s)", labels[3].SheetIndex, labels[3].SheetLabel)
	}
}

func TestLabelInfo_QRPayload(t *testing.T) {
	info := LabelInfo{
		CutID:      "c3",
		CutLabel:   "Shelf",
		Width:      400,
		Length:     300,
		SheetIndex: 1,
		SheetLabel: "Plywood",
		Sequence:   3,
		Rotated:    true,
		X:          10,
		Y:          420,
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"cut_id", "label", "width_mm", "length_mm", "sheet", "sheet_label", "seq", "rotated", "x_mm", "y_mm"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("QR payload is missing %q", key)
		}
	}
}

func TestExportLabels_ManyCuts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many_labels.pdf")

	// 35 cuts spill onto a second label page; sequence numbers repeat on
	// purpose to check QR images do not collide.
	assignments := make([]model.Assignment, 35)
	for i := range assignments {
		assignments[i] = model.Assignment{
			CutID:          fmt.Sprintf("c%d", i),
			CutLabel:       "A rather long cut name that needs truncating " + fmt.Sprint(i),
			Width:          100 + float64(i*10),
			Length:         50 + float64(i*5),
			XPosition:      float64(i * 110),
			YPosition:      10,
			SequenceNumber: i%10 + 1,
		}
	}

	plan := model.NewCuttingPlan()
	plan.SheetPlans = []model.SheetPlan{{
		SheetID: "s1", SheetLabel: "Large Board", SheetWidth: 5000, SheetLength: 3000,
		Assignments: assignments,
	}}

	if err := ExportLabels(path, plan); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	requireNonEmptyFile(t, path)
}

func TestLabelSheet_Cell(t *testing.T) {
	tests := []struct {
		i       int
		x, y    float64
		newPage bool
	}{
		{0, 4.8, 12.7, true},
		{1, 4.8 + 66.7, 12.7, false},
		{3, 4.8, 12.7 + 25.4, false},
		{29, 4.8 + 2*66.7, 12.7 + 9*25.4, false},
		{30, 4.8, 12.7, true},
	}
	for _, tt := range tests {
		x, y, newPage := Avery5160.Cell(tt.i)
		if math.Abs(x-tt.x) > 1e-9 || math.Abs(y-tt.y) > 1e-9 || newPage != tt.newPage {
			t.Errorf("Cell(%d) = (%.2f, %.2f, %v), want (%.2f, %.2f, %v)",
				tt.i, x, y, newPage, tt.x, tt.y, tt.newPage)
		}
	}
	if Avery5160.PerPage() != 30 {
		t.Errorf("PerPage() = %d, want 30", Avery5160.PerPage())
	}
}

func TestExportLabelsOn_CustomSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a4.pdf")

	sheet := LabelSheet{
		PageSize: "A4", MarginTop: 10, MarginLeft: 10,
		CellWidth: 95, CellHeight: 40, Cols: 2, Rows: 6,
		QRSize: 30, Padding: 3,
	}
	if err := ExportLabelsOn(path, buildTestPlan(), sheet); err != nil {
		t.Fatalf("ExportLabelsOn returned error: %v", err)
	}
	requireNonEmptyFile(t, path)
}

func TestCollectLabelInfos_LocatorData(t *testing.T) {
	labels := CollectLabelInfos(buildTestPlan())

	rotated := labels[2]
	if rotated.placedW != rotated.Length || rotated.placedL != rotated.Width {
		t.Errorf("rotated footprint = %.0fx%.0f, want %.0fx%.0f",
			rotated.placedW, rotated.placedL, rotated.Length, rotated.Width)
	}
	if labels[3].index != 0 {
		t.Errorf("first cut on sheet 2 has palette index %d, want 0", labels[3].index)
	}
	if labels[0].sheetW <= 0 || labels[0].sheetL <= 0 {
		t.Error("expected sheet size to be carried for the locator")
	}
}
