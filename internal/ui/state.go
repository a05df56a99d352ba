package ui

import (
	"path/filepath"

	"github.com/piwi3910/SlabView/internal/model"
)

// PlanState is the cutting plan the viewer currently shows, with back and
// forward navigation over the plans shown before. Set is called when a load
// or import succeeds and Reset when the view is cleared; everything else only
// reads it.
type PlanState struct {
	plan    *model.CuttingPlan
	path    string
	history *History
}

func NewPlanState() *PlanState {
	return &PlanState{history: NewHistory()}
}

// Plan returns the plan on screen, or nil.
func (s *PlanState) Plan() *model.CuttingPlan {
	return s.plan
}

// Path returns the file the current plan came from, or "".
func (s *PlanState) Path() string {
	return s.path
}

// Loaded reports whether a plan is shown.
func (s *PlanState) Loaded() bool {
	return s.plan != nil
}

// Set shows plan and remembers the previous one for Back.
func (s *PlanState) Set(plan model.CuttingPlan, path string) {
	s.history.Push(s.snapshot())
	s.plan = copyPlan(&plan)
	s.path = path
}

// Reset clears the view. The cleared plan stays reachable through Back.
func (s *PlanState) Reset() {
	if s.plan == nil {
		return
	}
	s.history.Push(s.snapshot())
	s.plan = nil
	s.path = ""
}

// Back returns to the previously shown plan.
func (s *PlanState) Back() bool {
	prev, ok := s.history.Undo(s.snapshot())
	if ok {
		s.restore(prev)
	}
	return ok
}

// Forward undoes a Back.
func (s *PlanState) Forward() bool {
	next, ok := s.history.Redo(s.snapshot())
	if ok {
		s.restore(next)
	}
	return ok
}

// Plans returns every distinct plan in the history, current one included,
// in the order they were shown.
func (s *PlanState) Plans() []model.CuttingPlan {
	snaps := s.history.Snapshots()
	seen := make(map[string]bool)
	var plans []model.CuttingPlan
	add := func(p *model.CuttingPlan) {
		if p == nil || seen[p.ID] {
			return
		}
		seen[p.ID] = true
		plans = append(plans, *p)
	}
	n := len(s.history.undoStack)
	for _, snap := range snaps[:n] {
		add(snap.Plan)
	}
	add(s.plan)
	for _, snap := range snaps[n:] {
		add(snap.Plan)
	}
	return plans
}

func (s *PlanState) CanBack() bool    { return s.history.CanUndo() }
func (s *PlanState) CanForward() bool { return s.history.CanRedo() }

// Title is a short description of what is shown, for the window title.
func (s *PlanState) Title() string {
	switch {
	case s.plan == nil:
		return ""
	case s.path != "":
		return filepath.Base(s.path)
	default:
		return "Untitled plan"
	}
}

func (s *PlanState) snapshot() Snapshot {
	return MakeSnapshot(s.plan, s.path, s.Title())
}

func (s *PlanState) restore(snap Snapshot) {
	s.plan = snap.Plan
	s.path = snap.Path
}
