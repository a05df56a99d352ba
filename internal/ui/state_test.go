package ui

import "testing"

func TestPlanState_New(t *testing.T) {
	s := NewPlanState()
	if s.Loaded() || s.Plan() != nil || s.Path() != "" {
		t.Error("new state should be empty")
	}
	if s.CanBack() || s.CanForward() {
		t.Error("new state should have no history")
	}
	if s.Title() != "" {
		t.Errorf("Title() = %q, want empty", s.Title())
	}
}

func TestPlanState_SetCopiesPlan(t *testing.T) {
	s := NewPlanState()
	plan := planWithCuts("Side")
	s.Set(*plan, "/plans/kitchen.json")

	plan.SheetPlans[0].Assignments[0].CutLabel = "Changed"
	if got := s.Plan().SheetPlans[0].Assignments[0].CutLabel; got != "Side" {
		t.Errorf("state plan label = %q, want Side", got)
	}
	if s.Title() != "kitchen.json" {
		t.Errorf("Title() = %q, want kitchen.json", s.Title())
	}
	if !s.CanBack() {
		t.Error("Set should make the empty view reachable through Back")
	}
}

func TestPlanState_BackForward(t *testing.T) {
	s := NewPlanState()
	s.Set(*planWithCuts("A"), "one.json")
	s.Set(*planWithCuts("A", "B"), "two.json")

	if !s.Back() {
		t.Fatal("Back should succeed")
	}
	if s.Path() != "one.json" || s.Plan().CutCount() != 1 {
		t.Errorf("after Back: %s with %d cuts", s.Path(), s.Plan().CutCount())
	}

	if !s.Back() {
		t.Fatal("second Back should succeed")
	}
	if s.Loaded() {
		t.Error("second Back should return to the empty view")
	}
	if s.Back() {
		t.Error("Back past the start should fail")
	}

	if !s.Forward() || !s.Forward() {
		t.Fatal("Forward twice should succeed")
	}
	if s.Path() != "two.json" {
		t.Errorf("after Forward: %s, want two.json", s.Path())
	}
	if s.CanForward() {
		t.Error("should be at the newest plan")
	}
}

func TestPlanState_Reset(t *testing.T) {
	s := NewPlanState()
	s.Reset()
	if s.CanBack() {
		t.Error("Reset of an empty view should not add history")
	}

	s.Set(*planWithCuts("A"), "")
	if s.Title() != "Untitled plan" {
		t.Errorf("Title() = %q, want Untitled plan", s.Title())
	}
	s.Reset()
	if s.Loaded() {
		t.Error("Reset should clear the plan")
	}
	if !s.Back() || !s.Loaded() {
		t.Error("Back should restore the reset plan")
	}
}

func TestPlanState_SetClearsForward(t *testing.T) {
	s := NewPlanState()
	s.Set(*planWithCuts("A"), "one.json")
	s.Set(*planWithCuts("B"), "two.json")
	s.Back()
	s.Set(*planWithCuts("C"), "three.json")
	if s.CanForward() {
		t.Error("Set should drop the forward history")
	}
}
