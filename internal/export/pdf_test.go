package export

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SlabView/internal/diagram"
	"github.com/piwi3910/SlabView/internal/model"
)

// buildTestPlan creates a realistic two-sheet cutting plan for testing.
func buildTestPlan() model.CuttingPlan {
	plan := model.NewCuttingPlan()
	plan.SheetPlans = []model.SheetPlan{
		{
			SheetID:     "s1",
			SheetLabel:  "Plywood 2440x1220",
			SheetWidth:  2440,
			SheetLength: 1220,
			Assignments: []model.Assignment{
				{CutID: "c1", CutLabel: "Side Panel", Width: 600, Length: 400, XPosition: 10, YPosition: 10, SequenceNumber: 1},
				{CutID: "c2", CutLabel: "Top", Width: 500, Length: 300, XPosition: 620, YPosition: 10, SequenceNumber: 2},
				{CutID: "c3", CutLabel: "Shelf", Width: 400, Length: 300, XPosition: 10, YPosition: 420, Rotation: model.Rotation90, SequenceNumber: 3},
			},
			WasteArea: 2976800 - 510000,
		},
		{
			SheetID:     "s2",
			SheetLabel:  "MDF 1200x600",
			SheetWidth:  1200,
			SheetLength: 600,
			Assignments: []model.Assignment{
				{CutID: "c4", CutLabel: "Back Panel", Width: 800, Length: 500, XPosition: 10, YPosition: 10, SequenceNumber: 1},
			},
			WasteArea: 320000,
		},
	}
	return plan
}

func requireNonEmptyFile(t *testing.T, path string) os.FileInfo {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	return info
}

func TestExportPDF_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test_output.pdf")

	if err := ExportPDF(path, buildTestPlan(), 800); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info := requireNonEmptyFile(t, path)
	// Three pages (two sheets and the summary) should be a reasonable size
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	if err := ExportPDF(path, model.NewCuttingPlan(), 800); err == nil {
		t.Fatal("expected error for empty plan, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for an empty plan")
	}
}

func TestExportPDF_WithUnplacedAndUnusedSheets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unplaced.pdf")

	plan := buildTestPlan()
	plan.UnplacedCuts = []model.UnplacedCut{
		{CutID: "u1", CutLabel: "Too Big", Width: 3000, Length: 2000, Reason: "larger than every sheet"},
		{CutID: "u2", CutLabel: "Another", Width: 1500, Length: 1500},
	}
	plan.UnusedSheets = []model.UnusedSheet{
		{SheetID: "s3", Label: "Oak 2000x600", Width: 2000, Length: 600, Quantity: 2, Priority: "low"},
	}

	if err := ExportPDF(path, plan, 800); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	requireNonEmptyFile(t, path)
}

func TestExportPDF_TinyCutsWithCallouts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.pdf")

	plan := model.NewCuttingPlan()
	sheet := model.SheetPlan{SheetLabel: "Offcut", SheetWidth: 2000, SheetLength: 2000}
	for i := 0; i < 6; i++ {
		sheet.Assignments = append(sheet.Assignments, model.Assignment{
			CutLabel:       fmt.Sprintf("Peg %d", i+1),
			Width:          5,
			Length:         5,
			XPosition:      1000,
			YPosition:      1000 + float64(i)*8,
			Rotation:       model.Rotation90,
			SequenceNumber: i + 1,
		})
	}
	plan.SheetPlans = []model.SheetPlan{sheet}

	if err := ExportPDF(path, plan, 800); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	requireNonEmptyFile(t, path)
}

func TestExportPDF_ManyCuts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many_cuts.pdf")

	// More cuts than palette colours, enough to overflow the cut list
	assignments := make([]model.Assignment, 120)
	for i := range assignments {
		assignments[i] = model.Assignment{
			CutID:          fmt.Sprintf("c%d", i),
			CutLabel:       fmt.Sprintf("Part %d", i+1),
			Width:          100,
			Length:         80,
			XPosition:      float64((i % 12) * 110),
			YPosition:      float64((i / 12) * 90),
			SequenceNumber: i + 1,
		}
		if i%3 == 0 {
			assignments[i].Rotation = model.Rotation90
			assignments[i].Width, assignments[i].Length = 80, 100
		}
	}

	plan := model.NewCuttingPlan()
	plan.SheetPlans = []model.SheetPlan{{
		SheetID: "s1", SheetLabel: "Large Board", SheetWidth: 1400, SheetLength: 1000,
		Assignments: assignments,
	}}

	if err := ExportPDF(path, plan, 800); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	requireNonEmptyFile(t, path)
}

func TestExportPDF_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.pdf")
	if err := ExportPDF(path, buildTestPlan(), 800); err == nil {
		t.Fatal("expected error for unwritable path, got nil")
	}
}

func TestPaintOp(t *testing.T) {
	tests := []struct {
		style diagram.Style
		want  string
	}{
		{diagram.Style{Fill: diagram.ColorSheetFill, Stroke: diagram.ColorSheetStroke}, "FD"},
		{diagram.Style{Fill: diagram.ColorBadge}, "F"},
		{diagram.Style{Stroke: diagram.ColorViewport}, "D"},
		{diagram.Style{}, ""},
	}
	for _, tt := range tests {
		if got := paintOp(tt.style); got != tt.want {
			t.Errorf("paintOp(%+v) = %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestPDFGlyphs(t *testing.T) {
	got := pdfGlyphs.Replace("600×400mm ↻")
	if got != "600×400mm (rot)" {
		t.Errorf("pdfGlyphs.Replace = %q", got)
	}
}
