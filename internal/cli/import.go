package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabView/internal/project"
)

func newImportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import [table]",
		Short: "Convert a CSV, Excel or DXF layout into a plan file",
		Long: `Import reads an assignment table (one row per placed cut, grouped into
sheets by the sheet column) or a DXF layout and writes a JSON or YAML plan
file, chosen by the output extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "plan file to write (.json, .yaml; default: <table>.json)")
	return cmd
}

func runImport(ctx context.Context, input, output string) error {
	logger := loggerFromContext(ctx)
	cfg := sessionFromContext(ctx).config

	plan, err := loadPlan(ctx, input)
	if err != nil {
		return err
	}

	out := outputPath(input, output, ".json", cfg)
	if out == input {
		return fmt.Errorf("refusing to overwrite input %s", input)
	}
	if err := project.SavePlan(out, plan); err != nil {
		return err
	}
	logger.Info(successLine(fmt.Sprintf("Imported %d cuts on %d sheets", plan.CutCount(), plan.SheetsUsed())), "output", out)
	return nil
}
