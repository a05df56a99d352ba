package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/SlabView/internal/model"
)

// PlanFormat is the encoding of a plan file.
type PlanFormat int

const (
	FormatJSON PlanFormat = iota
	FormatYAML
)

func (f PlanFormat) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks the plan encoding from a file extension. Anything
// other than .yaml or .yml is JSON.
func FormatFromPath(path string) PlanFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodePlan reads a cutting plan in the optimizer's response schema.
func DecodePlan(r io.Reader, format PlanFormat) (model.CuttingPlan, error) {
	var plan model.CuttingPlan
	var err error
	if format == FormatYAML {
		err = yaml.NewDecoder(r).Decode(&plan)
	} else {
		err = json.NewDecoder(r).Decode(&plan)
	}
	if err != nil {
		return model.CuttingPlan{}, fmt.Errorf("failed to decode %s plan: %w", format, err)
	}
	normalizePlan(&plan)
	return plan, nil
}

// EncodePlan writes plan in the given format.
func EncodePlan(w io.Writer, plan model.CuttingPlan, format PlanFormat) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return fmt.Errorf("failed to encode yaml plan: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("failed to encode json plan: %w", err)
	}
	return nil
}

// LoadPlan reads a plan file, choosing JSON or YAML by extension. Plans
// without an id get a fresh one.
func LoadPlan(path string) (model.CuttingPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.CuttingPlan{}, fmt.Errorf("failed to open plan: %w", err)
	}
	defer f.Close()

	plan, err := DecodePlan(f, FormatFromPath(path))
	if err != nil {
		return model.CuttingPlan{}, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// SavePlan writes plan to path, choosing JSON or YAML by extension. It
// creates any missing parent directories.
func SavePlan(path string, plan model.CuttingPlan) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	if err := EncodePlan(f, plan, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// normalizePlan fills what an external producer may leave out: the plan id,
// sheet ids and empty collections.
func normalizePlan(plan *model.CuttingPlan) {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	if plan.SheetPlans == nil {
		plan.SheetPlans = []model.SheetPlan{}
	}
	if plan.UnplacedCuts == nil {
		plan.UnplacedCuts = []model.UnplacedCut{}
	}
	if plan.UnusedSheets == nil {
		plan.UnusedSheets = []model.UnusedSheet{}
	}
	for i := range plan.SheetPlans {
		if plan.SheetPlans[i].SheetID == "" {
			plan.SheetPlans[i].SheetID = fmt.Sprintf("S%d", i+1)
		}
	}
}
