package model

import (
	"time"

	"github.com/google/uuid"
)

// Rotation is the orientation of a placed cut, in degrees.
type Rotation int

const (
	Rotation0  Rotation = 0  // Placed as specified
	Rotation90 Rotation = 90 // Width and length swapped on the sheet
)

func (r Rotation) String() string {
	if r == Rotation90 {
		return "90°"
	}
	return "0°"
}

// Assignment is one required cut placed on a stock sheet by the optimizer.
type Assignment struct {
	CutID          string   `json:"cut_id" yaml:"cut_id"`
	CutLabel       string   `json:"cut_label" yaml:"cut_label"`
	Width          float64  `json:"width" yaml:"width"`           // mm, unrotated
	Length         float64  `json:"length" yaml:"length"`         // mm, unrotated
	XPosition      float64  `json:"x_position" yaml:"x_position"` // mm from left edge
	YPosition      float64  `json:"y_position" yaml:"y_position"` // mm from top edge
	Rotation       Rotation `json:"rotation" yaml:"rotation"`
	SequenceNumber int      `json:"sequence_number" yaml:"sequence_number"`
}

// Rotated reports whether the cut was turned 90° on the sheet.
func (a Assignment) Rotated() bool {
	return a.Rotation == Rotation90
}

// PlacedWidth returns the horizontal extent on the sheet considering rotation.
func (a Assignment) PlacedWidth() float64 {
	if a.Rotated() {
		return a.Length
	}
	return a.Width
}

// PlacedLength returns the vertical extent on the sheet considering rotation.
func (a Assignment) PlacedLength() float64 {
	if a.Rotated() {
		return a.Width
	}
	return a.Length
}

// Right returns the x coordinate of the placed footprint's right edge.
func (a Assignment) Right() float64 {
	return a.XPosition + a.PlacedWidth()
}

// Bottom returns the y coordinate of the placed footprint's bottom edge.
func (a Assignment) Bottom() float64 {
	return a.YPosition + a.PlacedLength()
}

// SheetPlan is one physical stock sheet with the cuts placed on it.
// Assignments are kept in cutting order, not spatial order.
type SheetPlan struct {
	SheetID     string       `json:"sheet_id" yaml:"sheet_id"`
	SheetLabel  string       `json:"sheet_label" yaml:"sheet_label"`
	SheetWidth  float64      `json:"sheet_width" yaml:"sheet_width"`   // mm
	SheetLength float64      `json:"sheet_length" yaml:"sheet_length"` // mm
	Assignments []Assignment `json:"assignments" yaml:"assignments"`
	WasteArea   float64      `json:"waste_area" yaml:"waste_area"` // mm², as reported by the optimizer
}

// UsedArea returns the total area covered by placed cuts.
func (sp SheetPlan) UsedArea() float64 {
	var total float64
	for _, a := range sp.Assignments {
		total += a.Width * a.Length
	}
	return total
}

// TotalArea returns the stock sheet area.
func (sp SheetPlan) TotalArea() float64 {
	return sp.SheetWidth * sp.SheetLength
}

// Efficiency returns the usage percentage.
func (sp SheetPlan) Efficiency() float64 {
	ta := sp.TotalArea()
	if ta == 0 {
		return 0
	}
	return (sp.UsedArea() / ta) * 100.0
}

// UnplacedCut is a required cut the optimizer could not fit on any sheet.
type UnplacedCut struct {
	CutID     string  `json:"cut_id" yaml:"cut_id"`
	CutLabel  string  `json:"cut_label" yaml:"cut_label"`
	Width     float64 `json:"width" yaml:"width"`
	Length    float64 `json:"length" yaml:"length"`
	Thickness float64 `json:"thickness" yaml:"thickness"`
	Reason    string  `json:"reason" yaml:"reason"`
}

// UnusedSheet is a stock sheet the plan did not need.
type UnusedSheet struct {
	SheetID   string  `json:"sheet_id" yaml:"sheet_id"`
	Label     string  `json:"label" yaml:"label"`
	Width     float64 `json:"width" yaml:"width"`
	Length    float64 `json:"length" yaml:"length"`
	Thickness float64 `json:"thickness" yaml:"thickness"`
	Quantity  int     `json:"quantity" yaml:"quantity"`
	Priority  string  `json:"priority" yaml:"priority"` // "high", "normal" or "low"
}

// CuttingPlan is the complete optimizer output: one SheetPlan per stock
// sheet used. It is treated as immutable once received.
type CuttingPlan struct {
	ID           string        `json:"id" yaml:"id"`
	CreatedAt    time.Time     `json:"created_at" yaml:"created_at"`
	KerfWidth    float64       `json:"kerf_width" yaml:"kerf_width"`   // mm
	TotalWaste   float64       `json:"total_waste" yaml:"total_waste"` // mm²
	SheetPlans   []SheetPlan   `json:"sheet_plans" yaml:"sheet_plans"`
	UnplacedCuts []UnplacedCut `json:"unplaced_cuts" yaml:"unplaced_cuts"`
	UnusedSheets []UnusedSheet `json:"unused_sheets" yaml:"unused_sheets"`
}

// DefaultKerfWidth is the blade kerf assumed when a plan does not state one.
const DefaultKerfWidth = 3.0

func NewCuttingPlan() CuttingPlan {
	return CuttingPlan{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now().UTC(),
		KerfWidth:    DefaultKerfWidth,
		SheetPlans:   []SheetPlan{},
		UnplacedCuts: []UnplacedCut{},
		UnusedSheets: []UnusedSheet{},
	}
}

// SheetsUsed returns the number of sheets in the plan.
func (cp CuttingPlan) SheetsUsed() int {
	return len(cp.SheetPlans)
}

// CutCount returns the number of placed cuts across all sheets.
func (cp CuttingPlan) CutCount() int {
	total := 0
	for _, sp := range cp.SheetPlans {
		total += len(sp.Assignments)
	}
	return total
}

// TotalEfficiency returns overall material usage percentage.
func (cp CuttingPlan) TotalEfficiency() float64 {
	var usedArea, totalArea float64
	for _, sp := range cp.SheetPlans {
		usedArea += sp.UsedArea()
		totalArea += sp.TotalArea()
	}
	if totalArea == 0 {
		return 0
	}
	return (usedArea / totalArea) * 100.0
}
