package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SlabView/internal/model"
	"github.com/piwi3910/SlabView/internal/project"
)

func TestKindFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"plan.json", KindPlan},
		{"plan.yaml", KindPlan},
		{"plan", KindPlan},
		{"cuts.CSV", KindTable},
		{"cuts.tsv", KindTable},
		{"cuts.xlsx", KindExcel},
		{"layout.dxf", KindDXF},
	}
	for _, tt := range tests {
		if got := KindFromPath(tt.path); got != tt.want {
			t.Errorf("KindFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoad_PlanFile(t *testing.T) {
	plan := model.NewCuttingPlan()
	plan.SheetPlans = []model.SheetPlan{{
		SheetID: "S1", SheetLabel: "Plywood", SheetWidth: 2440, SheetLength: 1220,
		Assignments: []model.Assignment{{CutLabel: "Side", Width: 600, Length: 400, SequenceNumber: 1}},
	}}
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := project.SavePlan(path, plan); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	result := Load(path)
	if !result.OK() {
		t.Fatalf("Load failed: %v", result.Errors)
	}
	if result.Plan.ID != plan.ID {
		t.Errorf("plan id = %q, want %q", result.Plan.ID, plan.ID)
	}
}

func TestLoad_Table(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cuts.csv")
	if err := os.WriteFile(path, []byte(standardCSV), 0644); err != nil {
		t.Fatal(err)
	}
	result := Load(path)
	if !result.OK() {
		t.Fatalf("Load failed: %v", result.Errors)
	}
	if got := len(result.Plan.SheetPlans); got != 2 {
		t.Errorf("got %d sheets, want 2", got)
	}
}

func TestLoad_BadPlanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	result := Load(path)
	if result.OK() || !containsMessage(result.Errors, "Cannot load plan") {
		t.Errorf("expected a load error, got %v", result.Errors)
	}
}
