package ui

import "github.com/piwi3910/SlabView/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the plan on screen at a point in time.
type Snapshot struct {
	Plan  *model.CuttingPlan // nil when nothing was shown
	Path  string             // file the plan came from, if any
	Label string             // Human-readable description (e.g. "Open plan.json")
}

// History manages back/forward stacks of viewed plans.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// This should be called before the shown plan is replaced.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot from the undo stack and pushes
// the current state onto the redo stack. Returns the snapshot to restore
// and true, or an empty snapshot and false if nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent snapshot from the redo stack and pushes
// the current state onto the undo stack. Returns the snapshot to restore
// and true, or an empty snapshot and false if nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

// CanUndo returns true if there is at least one snapshot to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one snapshot to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Snapshots returns every stored snapshot, oldest first. The state between
// the two stacks is not included.
func (h *History) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(h.undoStack)+len(h.redoStack))
	out = append(out, h.undoStack...)
	for i := len(h.redoStack) - 1; i >= 0; i-- {
		out = append(out, h.redoStack[i])
	}
	return out
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// copyPlan returns a deep copy of a plan, so later edits to the caller's
// slices cannot reach a stored snapshot.
func copyPlan(plan *model.CuttingPlan) *model.CuttingPlan {
	if plan == nil {
		return nil
	}
	cp := *plan
	if plan.SheetPlans != nil {
		cp.SheetPlans = make([]model.SheetPlan, len(plan.SheetPlans))
		for i, sp := range plan.SheetPlans {
			cp.SheetPlans[i] = sp
			if sp.Assignments != nil {
				cp.SheetPlans[i].Assignments = make([]model.Assignment, len(sp.Assignments))
				copy(cp.SheetPlans[i].Assignments, sp.Assignments)
			}
		}
	}
	if plan.UnplacedCuts != nil {
		cp.UnplacedCuts = make([]model.UnplacedCut, len(plan.UnplacedCuts))
		copy(cp.UnplacedCuts, plan.UnplacedCuts)
	}
	if plan.UnusedSheets != nil {
		cp.UnusedSheets = make([]model.UnusedSheet, len(plan.UnusedSheets))
		copy(cp.UnusedSheets, plan.UnusedSheets)
	}
	return &cp
}

// MakeSnapshot creates a snapshot of plan with a label.
func MakeSnapshot(plan *model.CuttingPlan, path, label string) Snapshot {
	return Snapshot{
		Plan:  copyPlan(plan),
		Path:  path,
		Label: label,
	}
}
