package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SlabView/internal/diagram"
	"github.com/piwi3910/SlabView/internal/model"
)

// LabelInfo holds the data encoded into each cut label's QR code.
type LabelInfo struct {
	CutID      string  `json:"cut_id,omitempty"`
	CutLabel   string  `json:"label"`
	Width      float64 `json:"width_mm"`
	Length     float64 `json:"length_mm"`
	SheetIndex int     `json:"sheet"`
	SheetLabel string  `json:"sheet_label"`
	Sequence   int     `json:"seq"`
	Rotated    bool    `json:"rotated"`
	X          float64 `json:"x_mm"`
	Y          float64 `json:"y_mm"`

	// Locator map inputs; not part of the QR payload.
	index            int // position on the sheet, picks the palette colour
	sheetW, sheetL   float64
	placedW, placedL float64
}

// LabelSheet describes a sheet of adhesive labels in millimetres.
type LabelSheet struct {
	PageSize      string // fpdf page size name
	MarginTop     float64
	MarginLeft    float64
	CellWidth     float64
	CellHeight    float64
	Cols, Rows    int
	QRSize        float64
	Padding       float64
	LocatorHeight float64 // 0 hides the sheet locator
}

// Avery5160 is the 3 x 10 address label sheet on US Letter.
var Avery5160 = LabelSheet{
	PageSize:      "Letter",
	MarginTop:     12.7,
	MarginLeft:    4.8,
	CellWidth:     66.7,
	CellHeight:    25.4,
	Cols:          3,
	Rows:          10,
	QRSize:        20,
	Padding:       2,
	LocatorHeight: 5.5,
}

// PerPage returns how many labels fit on one page.
func (s LabelSheet) PerPage() int { return s.Cols * s.Rows }

// Cell returns the top-left corner of label i on its page, and whether
// label i starts a new page.
func (s LabelSheet) Cell(i int) (x, y float64, newPage bool) {
	pos := i % s.PerPage()
	x = s.MarginLeft + float64(pos%s.Cols)*s.CellWidth
	y = s.MarginTop + float64(pos/s.Cols)*s.CellHeight
	return x, y, pos == 0
}

// ExportLabels writes QR-coded labels for every placed cut on Avery 5160
// sheets. See ExportLabelsOn.
func ExportLabels(path string, plan model.CuttingPlan) error {
	return ExportLabelsOn(path, plan, Avery5160)
}

// ExportLabelsOn writes one label per placed cut in cutting order. A label
// names the cut with its sequence number, gives its size and sheet, shows a
// small map of where it sits on the sheet, and carries the same data as a
// JSON QR code.
func ExportLabelsOn(path string, plan model.CuttingPlan, sheet LabelSheet) error {
	if len(plan.SheetPlans) == 0 {
		return fmt.Errorf("no sheets to generate labels for")
	}
	labels := CollectLabelInfos(plan)
	if len(labels) == 0 {
		return fmt.Errorf("no cuts placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", sheet.PageSize, "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, info := range labels {
		x, y, newPage := sheet.Cell(i)
		if newPage {
			pdf.AddPage()
		}
		if err := drawLabel(pdf, tr, sheet, x, y, i, info); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", info.CutLabel, err)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write labels %s: %w", path, err)
	}
	return nil
}

func drawLabel(pdf *fpdf.Fpdf, tr func(string) string, sheet LabelSheet, x, y float64, n int, info LabelInfo) error {
	// cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, sheet.CellWidth, sheet.CellHeight, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	img := fmt.Sprintf("qr_%d", n)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(img, opts, bytes.NewReader(png))
	pdf.ImageOptions(img,
		x+sheet.CellWidth-sheet.QRSize-sheet.Padding, y+(sheet.CellHeight-sheet.QRSize)/2,
		sheet.QRSize, sheet.QRSize, false, opts, 0, "")

	tx := x + sheet.Padding
	tw := sheet.CellWidth - sheet.QRSize - 3*sheet.Padding
	line := func(dy, h float64, style string, size float64, rgb [3]int, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
		pdf.SetXY(tx, y+sheet.Padding+dy)
		pdf.CellFormat(tw, h, tr(truncateToWidth(pdf, text, tw)), "", 0, "L", false, 0, "")
	}
	black, grey, amber := [3]int{0, 0, 0}, [3]int{100, 100, 100}, [3]int{150, 100, 0}

	line(0, 4.5, "B", 9, black, fmt.Sprintf("#%d %s", info.Sequence, info.CutLabel))
	line(5, 3.5, "", 7, black, fmt.Sprintf("%s x %s mm", diagram.FormatMM(info.Width), diagram.FormatMM(info.Length)))
	line(9, 3, "", 6, grey, fmt.Sprintf("Sheet %d: %s", info.SheetIndex, info.SheetLabel))
	if info.Rotated {
		line(12.5, 3, "I", 6, amber, "Rotated 90\xb0")
	}
	pdf.SetTextColor(0, 0, 0)

	if sheet.LocatorHeight > 0 {
		bottom := y + sheet.CellHeight - sheet.Padding
		drawLocator(pdf, tx, bottom-sheet.LocatorHeight, tw, sheet.LocatorHeight, info)
	}
	return nil
}

// drawLocator draws the sheet scaled into a w x h box with the cut's
// footprint filled in.
func drawLocator(pdf *fpdf.Fpdf, x, y, w, h float64, info LabelInfo) {
	if info.sheetW <= 0 || info.sheetL <= 0 {
		return
	}
	scale := min(w/info.sheetW, h/info.sheetL)
	sw, sl := info.sheetW*scale, info.sheetL*scale

	pdf.SetLineWidth(0.15)
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(x, y, sw, sl, "FD")

	fill := diagram.CutColor(info.index)
	pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
	pdf.Rect(x+info.X*scale, y+info.Y*scale, max(info.placedW*scale, 0.4), max(info.placedL*scale, 0.4), "F")
}

// truncateToWidth shortens s with a trailing ellipsis until it fits w at the
// current font.
func truncateToWidth(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > w {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// CollectLabelInfos lists the label data of every placed cut, sheet by sheet
// in cutting order.
func CollectLabelInfos(plan model.CuttingPlan) []LabelInfo {
	var labels []LabelInfo
	for sheetIdx, sheet := range plan.SheetPlans {
		for i, a := range sheet.Assignments {
			labels = append(labels, LabelInfo{
				CutID:      a.CutID,
				CutLabel:   a.CutLabel,
				Width:      a.Width,
				Length:     a.Length,
				SheetIndex: sheetIdx + 1,
				SheetLabel: sheet.SheetLabel,
				Sequence:   a.SequenceNumber,
				Rotated:    a.Rotated(),
				X:          a.XPosition,
				Y:          a.YPosition,
				index:      i,
				sheetW:     sheet.SheetWidth,
				sheetL:     sheet.SheetLength,
				placedW:    a.PlacedWidth(),
				placedL:    a.PlacedLength(),
			})
		}
	}
	return labels
}
