package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/SlabView/internal/importer"
	"github.com/piwi3910/SlabView/internal/model"
	"github.com/piwi3910/SlabView/internal/project"
)

// stdinName selects standard input as the plan source.
const stdinName = "-"

// loadPlan reads a cutting plan from a plan file (JSON or YAML), an
// assignment table (CSV, TSV, XLSX), a DXF layout, or "-" for JSON on
// standard input. Import warnings are logged; import errors fail the load.
func loadPlan(ctx context.Context, path string) (model.CuttingPlan, error) {
	logger := loggerFromContext(ctx)

	if path == stdinName {
		logger.Debug("reading plan from stdin")
		return project.DecodePlan(os.Stdin, project.FormatJSON)
	}

	kind := importer.KindFromPath(path)
	if kind == importer.KindPlan {
		logger.Debug("loading plan file", "path", path)
		return project.LoadPlan(path)
	}
	logger.Debug("importing", "path", path, "kind", kind)
	result := importer.Load(path)

	for _, w := range result.Warnings {
		logger.Warn(w, "file", filepath.Base(path))
	}
	if len(result.Errors) > 0 {
		return model.CuttingPlan{}, fmt.Errorf("import %s: %w", path, errors.New(strings.Join(result.Errors, "; ")))
	}
	if len(result.Plan.SheetPlans) == 0 {
		return model.CuttingPlan{}, fmt.Errorf("import %s: no sheets found", path)
	}
	logger.Debug("imported plan", "path", path, "sheets", result.Plan.SheetsUsed(), "cuts", result.Plan.CutCount())
	return result.Plan, nil
}

// outputPath chooses where a command writes: the explicit path if given,
// otherwise the input's base name with ext, placed in the configured output
// directory or next to the input.
func outputPath(input, explicit, ext string, cfg model.AppConfig) string {
	if explicit != "" {
		return explicit
	}
	base := "plan"
	dir := "."
	if input != stdinName {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		dir = filepath.Dir(input)
	}
	if cfg.OutputDir != "" {
		dir = cfg.OutputDir
	}
	return filepath.Join(dir, base+ext)
}

// containerWidth resolves the diagram width from a flag value, falling back
// to the configured default.
func containerWidth(flag float64, cfg model.AppConfig) float64 {
	if flag > 0 {
		return flag
	}
	return cfg.ContainerWidth()
}
