// Package cli implements the slabview command-line interface.
//
// The commands render cutting plans to SVG, export them as PDF reports,
// QR part labels or DXF drawings, convert CSV and Excel assignment tables
// into plan files, print a per-sheet layout summary, and open the desktop
// viewer.
//
// # Configuration
//
// Preferences are read from ~/.slabview/config.json (or the file named by
// --config; a .toml extension selects TOML). Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context. When the config names a log file, output
// is also written there with size-based rotation.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabView/internal/model"
	"github.com/piwi3910/SlabView/internal/project"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// It is called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// session is what every command receives from the root command: the
// loaded preferences and where they came from.
type session struct {
	config     model.AppConfig
	configPath string
}

func withSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, configKey, s)
}

// sessionFromContext returns the session attached by the root command, or
// one holding default preferences.
func sessionFromContext(ctx context.Context) *session {
	if s, ok := ctx.Value(configKey).(*session); ok {
		return s
	}
	return &session{config: model.DefaultAppConfig(), configPath: project.DefaultConfigPath()}
}

// Execute runs the slabview CLI and returns an error if any command fails.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
		closeLog   = func() error { return nil }
	)

	root := &cobra.Command{
		Use:           "slabview",
		Short:         "SlabView renders cutting plans as annotated sheet diagrams",
		Long:          `SlabView turns the output of a sheet cutting optimizer into one readable diagram per stock sheet, with numbered cutting sequence, guillotine lines and callouts for pieces too small to label.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.LoadAppConfig(configPath)
			if err != nil {
				return err
			}

			level := parseLevel(cfg.LogLevel)
			if verbose {
				level = charmlog.DebugLevel
			}
			w, closer := logWriter(cmd.ErrOrStderr(), cfg.LogFile)
			closeLog = closer
			logger := newLogger(w, level)
			logger.Debug("loaded config", "path", configPath)

			ctx := withLogger(cmd.Context(), logger)
			ctx = withSession(ctx, &session{config: cfg, configPath: configPath})
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLog()
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("slabview %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", project.DefaultConfigPath(), "config file (.json or .toml)")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newViewCmd())

	return root
}

// Main runs the CLI and exits non-zero on failure, logging the error.
func Main() {
	if err := Execute(); err != nil {
		newLogger(os.Stderr, charmlog.InfoLevel).Error(errorLine(err.Error()))
		os.Exit(1)
	}
}
