package diagram

import (
	"fmt"

	"github.com/piwi3910/SlabView/internal/model"
)

// DefaultContainerWidth is used when the mount point reports no usable width.
const DefaultContainerWidth = 760.0

// mountInset is subtracted from the mount point width before layout.
const mountInset = 40.0

// Legend lines shown under every sheet diagram.
var Legend = []string{
	"● Numbered badges = cutting sequence",
	"- - - Guillotine cut lines",
}

// ZoomedNote is shown next to the title of a cropped sheet.
const ZoomedNote = "(zoomed to cut area)"

// SheetView is one sheet of a rendered plan: its header texts and diagram.
type SheetView struct {
	Index      int // 1-based
	Title      string
	Dimensions string
	Zoomed     bool
	PieceCount string
	Diagram    Diagram
}

// PlanView is a full cutting plan laid out for one container width.
type PlanView struct {
	ContainerWidth float64
	Sheets         []SheetView
}

// ContainerWidth converts the width of a mount point into the width handed
// to the layout.
func ContainerWidth(mountWidth float64) float64 {
	if w := mountWidth - mountInset; w > 0 {
		return w
	}
	return DefaultContainerWidth
}

// RenderPlan lays out every sheet of plan in order.
func RenderPlan(plan model.CuttingPlan, containerWidth float64) PlanView {
	view := PlanView{
		ContainerWidth: containerWidth,
		Sheets:         make([]SheetView, 0, len(plan.SheetPlans)),
	}
	for i, sp := range plan.SheetPlans {
		d := RenderSheet(sp, containerWidth)
		view.Sheets = append(view.Sheets, SheetView{
			Index:      i + 1,
			Title:      fmt.Sprintf("Sheet %d: %s", i+1, sp.SheetLabel),
			Dimensions: fmt.Sprintf("%s × %s mm", FormatMM(sp.SheetWidth), FormatMM(sp.SheetLength)),
			Zoomed:     d.Viewport.Cropped,
			PieceCount: PieceCount(len(sp.Assignments)),
			Diagram:    d,
		})
	}
	return view
}

// PieceCount formats n as "1 piece" or "n pieces".
func PieceCount(n int) string {
	if n == 1 {
		return "1 piece"
	}
	return fmt.Sprintf("%d pieces", n)
}
