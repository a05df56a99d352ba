package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabView/internal/project"
	"github.com/piwi3910/SlabView/internal/ui"
)

// runViewer opens the desktop window; replaced in tests.
var runViewer = ui.Run

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [plan]",
		Short: "Open the desktop viewer",
		Long:  `View opens a window showing every sheet of the plan. Without an argument the window starts empty; plans, tables and DXF layouts can be opened from the File menu.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runView(cmd.Context(), input)
		},
	}
}

func runView(ctx context.Context, input string) error {
	logger := loggerFromContext(ctx)
	s := sessionFromContext(ctx)

	opts := ui.Options{
		Config:     s.config,
		ConfigPath: s.configPath,
		Logger:     logger,
		Version:    version,
	}
	if input != "" {
		plan, err := loadPlan(ctx, input)
		if err != nil {
			return err
		}
		opts.Plan = &plan
		if input != stdinName {
			opts.PlanPath = input
			s.config.AddRecentPlan(input)
			opts.Config = s.config
			if err := project.SaveAppConfig(s.configPath, s.config); err != nil {
				logger.Warn("could not save recent plans", "path", s.configPath, "err", err)
			}
		}
		logger.Debug("opening viewer", "plan", input, "sheets", plan.SheetsUsed())
	}

	runViewer(opts)
	return nil
}
