package importer

import (
	"fmt"

	"github.com/piwi3910/SlabView/internal/model"
)

// sheetGroup collects the cuts read for one sheet.
type sheetGroup struct {
	plan      model.SheetPlan
	sequenced []bool // per assignment: sequence number came from the input
}

// sheetGrouper groups parsed rows by sheet name, keeping first-seen order.
type sheetGrouper struct {
	order  []string
	groups map[string]*sheetGroup
}

func newSheetGrouper() *sheetGrouper {
	return &sheetGrouper{groups: make(map[string]*sheetGroup)}
}

// add files r under its sheet. It returns a warning when the row states
// sheet dimensions that contradict an earlier row of the same sheet.
func (g *sheetGrouper) add(r row) string {
	grp, ok := g.groups[r.sheet]
	if !ok {
		grp = &sheetGroup{plan: model.SheetPlan{SheetLabel: r.sheet}}
		g.groups[r.sheet] = grp
		g.order = append(g.order, r.sheet)
	}

	var warning string
	sp := &grp.plan
	switch {
	case r.sheetWidth == 0 && r.sheetLength == 0:
	case sp.SheetWidth == 0 && sp.SheetLength == 0:
		sp.SheetWidth, sp.SheetLength = r.sheetWidth, r.sheetLength
	case r.sheetWidth != sp.SheetWidth || r.sheetLength != sp.SheetLength:
		warning = fmt.Sprintf("sheet %q is %gx%g here but %gx%g earlier; keeping the first",
			r.sheet, r.sheetWidth, r.sheetLength, sp.SheetWidth, sp.SheetLength)
	}

	sp.Assignments = append(sp.Assignments, r.assignment)
	grp.sequenced = append(grp.sequenced, r.hasSequence)
	return warning
}

// sheets finalizes every group into a SheetPlan: missing dimensions are
// inferred from the cuts, missing sequence numbers continue after the
// highest given one, and the waste area is derived.
func (g *sheetGrouper) sheets() ([]model.SheetPlan, []string) {
	var warnings []string
	plans := make([]model.SheetPlan, 0, len(g.order))

	for i, name := range g.order {
		grp := g.groups[name]
		sp := grp.plan
		sp.SheetID = fmt.Sprintf("S%d", i+1)

		maxRight, maxBottom := 0.0, 0.0
		for _, a := range sp.Assignments {
			maxRight = max(maxRight, a.Right())
			maxBottom = max(maxBottom, a.Bottom())
		}
		if sp.SheetWidth <= 0 || sp.SheetLength <= 0 {
			sp.SheetWidth, sp.SheetLength = maxRight, maxBottom
			warnings = append(warnings, fmt.Sprintf("Sheet %q has no dimensions, using the extent of its cuts (%gx%g)", name, maxRight, maxBottom))
		} else {
			for _, a := range sp.Assignments {
				if a.Right() > sp.SheetWidth || a.Bottom() > sp.SheetLength {
					warnings = append(warnings, fmt.Sprintf("Cut %q extends beyond sheet %q", a.CutLabel, name))
				}
			}
		}

		if w := fillSequence(sp.Assignments, grp.sequenced); w {
			warnings = append(warnings, fmt.Sprintf("Sheet %q: some cuts have no sequence number, numbering them after the last given one", name))
		}

		sp.WasteArea = max(0, sp.TotalArea()-sp.UsedArea())
		plans = append(plans, sp)
	}
	return plans, warnings
}

// fillSequence numbers the assignments whose sequence was not given. With no
// sequence column at all they are numbered in row order. It reports whether
// given and missing numbers were mixed.
func fillSequence(assignments []model.Assignment, given []bool) bool {
	next := 0
	mixed := false
	anyGiven := false
	for i, a := range assignments {
		if given[i] {
			anyGiven = true
			next = max(next, a.SequenceNumber)
		}
	}
	for i := range assignments {
		if given[i] {
			continue
		}
		if anyGiven {
			mixed = true
		}
		next++
		assignments[i].SequenceNumber = next
	}
	return mixed
}

func totalWaste(sheets []model.SheetPlan) float64 {
	total := 0.0
	for _, sp := range sheets {
		total += sp.WasteArea
	}
	return total
}
