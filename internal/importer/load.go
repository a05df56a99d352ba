package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/SlabView/internal/project"
)

// Kind names the reader Load picks for a path.
type Kind int

const (
	KindPlan  Kind = iota // JSON or YAML plan file
	KindTable             // CSV, TSV or text assignment table
	KindExcel             // XLSX workbook
	KindDXF               // DXF layout
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindExcel:
		return "excel"
	case KindDXF:
		return "dxf"
	default:
		return "plan"
	}
}

// KindFromPath picks a reader by file extension. Unknown extensions are
// treated as plan files.
func KindFromPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return KindTable
	case ".xlsx", ".xlsm":
		return KindExcel
	case ".dxf":
		return KindDXF
	default:
		return KindPlan
	}
}

// Load reads a cutting plan from any supported file. Plan files that fail to
// decode are reported in Errors like a failed table import.
func Load(path string) ImportResult {
	switch KindFromPath(path) {
	case KindTable:
		return ImportCSV(path)
	case KindExcel:
		return ImportExcel(path)
	case KindDXF:
		return ImportDXF(path)
	}

	plan, err := project.LoadPlan(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot load plan: %v", err)}}
	}
	return ImportResult{Plan: plan}
}
