// Package importer builds cutting plans from assignment tables (CSV and
// Excel) and from DXF layouts. Tables are read with automatic delimiter
// detection and case-insensitive header recognition; one row describes one
// placed cut, and rows are grouped into sheets by their sheet column.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlabView/internal/model"
)

// ImportResult holds the results of an import operation. Plan is usable
// whenever Errors is empty; rows that failed are reported and skipped.
type ImportResult struct {
	Plan     model.CuttingPlan
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced a plan without errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Plan.SheetPlans) > 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
// -1 means the column is absent.
type ColumnMapping struct {
	Sheet       int
	SheetWidth  int
	SheetLength int
	CutID       int
	Label       int
	Width       int
	Length      int
	X           int
	Y           int
	Rotation    int
	Sequence    int
}

// positionalMapping is used for tables without a recognizable header.
var positionalMapping = ColumnMapping{
	Sheet:       0,
	SheetWidth:  1,
	SheetLength: 2,
	CutID:       -1,
	Label:       3,
	Width:       4,
	Length:      5,
	X:           6,
	Y:           7,
	Rotation:    8,
	Sequence:    9,
}

// headerAliases maps column roles to their accepted header names (all
// lowercase, separators folded to single spaces).
var headerAliases = []struct {
	role    string
	aliases []string
}{
	{"sheet", []string{"sheet", "sheet label", "sheet name", "stock", "board", "panel"}},
	{"sheet_width", []string{"sheet width", "stock width", "board width", "sheet w"}},
	{"sheet_length", []string{"sheet length", "stock length", "board length", "sheet l", "sheet height"}},
	{"cut_id", []string{"cut id", "id", "part id"}},
	{"label", []string{"label", "cut label", "cut", "name", "part", "part name", "description", "piece", "item"}},
	{"width", []string{"width", "w", "cut width"}},
	{"length", []string{"length", "len", "l", "height", "h", "cut length"}},
	{"x", []string{"x", "x position", "x mm", "pos x", "left"}},
	{"y", []string{"y", "y position", "y mm", "pos y", "top"}},
	{"rotation", []string{"rotation", "rot", "rotated", "angle"}},
	{"sequence", []string{"sequence", "sequence number", "seq", "order", "#", "no"}},
}

// normalizeHeader lowercases a header cell and folds '_', '-' and runs of
// spaces into single spaces.
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header cell was recognized.
func DetectColumns(row []string) (ColumnMapping, bool) {
	found := make(map[string]int)
	for i, cell := range row {
		normalized := normalizeHeader(cell)
		for _, h := range headerAliases {
			if _, taken := found[h.role]; taken {
				continue
			}
			for _, alias := range h.aliases {
				if normalized == alias {
					found[h.role] = i
					break
				}
			}
		}
	}

	if len(found) == 0 {
		return positionalMapping, false
	}

	col := func(role string) int {
		if i, ok := found[role]; ok {
			return i
		}
		return -1
	}
	return ColumnMapping{
		Sheet:       col("sheet"),
		SheetWidth:  col("sheet_width"),
		SheetLength: col("sheet_length"),
		CutID:       col("cut_id"),
		Label:       col("label"),
		Width:       col("width"),
		Length:      col("length"),
		X:           col("x"),
		Y:           col("y"),
		Rotation:    col("rotation"),
		Sequence:    col("sequence"),
	}, true
}

// parseRotation accepts 0/90 in the usual spellings. It returns the rotation
// and whether the value was recognized.
func parseRotation(s string) (model.Rotation, bool) {
	switch strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), "°")) {
	case "", "0", "no", "n", "false", "-":
		return model.Rotation0, true
	case "90", "yes", "y", "true", "r", "rotated":
		return model.Rotation90, true
	default:
		return model.Rotation0, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber parses a millimetre value, accepting a decimal comma.
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// row is one parsed table line before grouping.
type row struct {
	sheet       string
	sheetWidth  float64
	sheetLength float64
	assignment  model.Assignment
	hasSequence bool
}

// parseRow extracts one placed cut from a table row.
// Returns the row, any error message, and any warning message.
func parseRow(cells []string, mapping ColumnMapping, rowLabel string, rowIndex int) (row, string, string) {
	r := row{sheet: getCell(cells, mapping.Sheet)}
	if r.sheet == "" {
		r.sheet = "Sheet 1"
	}

	required := func(idx int, name string) (float64, string) {
		s := getCell(cells, idx)
		if s == "" {
			return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
		}
		v, err := parseNumber(s)
		if err != nil {
			return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
		}
		return v, ""
	}
	optional := func(idx int, name string) (float64, string) {
		if getCell(cells, idx) == "" {
			return 0, ""
		}
		return required(idx, name)
	}

	var errMsg string
	a := model.Assignment{
		CutID:    getCell(cells, mapping.CutID),
		CutLabel: getCell(cells, mapping.Label),
	}
	if a.Width, errMsg = required(mapping.Width, "width"); errMsg != "" {
		return row{}, errMsg, ""
	}
	if a.Length, errMsg = required(mapping.Length, "length"); errMsg != "" {
		return row{}, errMsg, ""
	}
	if a.XPosition, errMsg = required(mapping.X, "x"); errMsg != "" {
		return row{}, errMsg, ""
	}
	if a.YPosition, errMsg = required(mapping.Y, "y"); errMsg != "" {
		return row{}, errMsg, ""
	}
	if r.sheetWidth, errMsg = optional(mapping.SheetWidth, "sheet width"); errMsg != "" {
		return row{}, errMsg, ""
	}
	if r.sheetLength, errMsg = optional(mapping.SheetLength, "sheet length"); errMsg != "" {
		return row{}, errMsg, ""
	}

	if a.Width <= 0 || a.Length <= 0 {
		return row{}, fmt.Sprintf("%s: Width and length must be positive", rowLabel), ""
	}
	if a.XPosition < 0 || a.YPosition < 0 {
		return row{}, fmt.Sprintf("%s: Position must not be negative", rowLabel), ""
	}
	if a.CutLabel == "" {
		a.CutLabel = fmt.Sprintf("Cut %d", rowIndex+1)
	}

	if s := getCell(cells, mapping.Sequence); s != "" {
		seq, err := strconv.Atoi(s)
		if err != nil || seq <= 0 {
			return row{}, fmt.Sprintf("%s: Invalid sequence '%s'", rowLabel, s), ""
		}
		a.SequenceNumber = seq
		r.hasSequence = true
	}

	var warning string
	rotStr := getCell(cells, mapping.Rotation)
	rot, ok := parseRotation(rotStr)
	if !ok {
		warning = fmt.Sprintf("%s: Unknown rotation '%s', defaulting to 0", rowLabel, rotStr)
	}
	a.Rotation = rot

	r.assignment = a
	return r, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports a plan from a CSV assignment table.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports a plan from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports a plan from the first worksheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, parses each row and groups the cuts into
// sheets in order of first appearance.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Plan:     model.NewCuttingPlan(),
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		for _, c := range []struct {
			idx  int
			name string
		}{
			{mapping.Width, "Width"},
			{mapping.Length, "Length"},
			{mapping.X, "X"},
			{mapping.Y, "Y"},
		} {
			if c.idx == -1 {
				missing = append(missing, c.name)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) > mapping.Width {
		// An unrecognized header still has text where numbers belong.
		if _, err := parseNumber(getCell(rows[0], mapping.Width)); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	g := newSheetGrouper()
	parsed := 0
	for i := startRow; i < len(rows); i++ {
		cells := rows[i]
		if isEmptyRow(cells) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		r, errMsg, warning := parseRow(cells, mapping, rowLabel, parsed)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if w := g.add(r); w != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", rowLabel, w))
		}
		parsed++
	}

	if parsed == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	sheets, warnings := g.sheets()
	result.Warnings = append(result.Warnings, warnings...)
	result.Plan.SheetPlans = sheets
	result.Plan.TotalWaste = totalWaste(sheets)
	return result
}
