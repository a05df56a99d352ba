package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/SlabView/internal/model"
	"github.com/piwi3910/SlabView/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.FormatFloat(cfg.ContainerWidth(), 'f', -1, 64))
	widthEntry.Validator = func(text string) error {
		if v, err := strconv.ParseFloat(text, 64); err != nil || v <= 0 {
			return fmt.Errorf("width must be a positive number")
		}
		return nil
	}
	widthEntry.OnChanged = func(text string) {
		if v, err := strconv.ParseFloat(text, 64); err == nil && v > 0 {
			cfg.DefaultContainerWidth = v
		}
	}

	outputEntry := widget.NewEntry()
	outputEntry.SetPlaceHolder("next to the plan file")
	outputEntry.SetText(cfg.OutputDir)
	outputEntry.OnChanged = func(text string) { cfg.OutputDir = text }

	themeSelect := widget.NewSelect([]string{ThemeSystem, ThemeLight, ThemeDark}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	levelSelect := widget.NewSelect([]string{"debug", "info", "warn", "error"}, func(selected string) {
		cfg.LogLevel = selected
	})
	levelSelect.SetSelected(cfg.LogLevel)

	logFileEntry := widget.NewEntry()
	logFileEntry.SetPlaceHolder("console only")
	logFileEntry.SetText(cfg.LogFile)
	logFileEntry.OnChanged = func(text string) { cfg.LogFile = text }

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Diagram Width (px)", widthEntry),
		widget.NewFormItem("Output Folder", outputEntry),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Log Level", levelSelect),
		widget.NewFormItem("Log File", logFileEntry),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			a.applyConfig(cfg)
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "Application settings have been saved.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(480, 360))
	d.Show()
}

// applyConfig makes cfg current and updates what depends on it.
func (a *App) applyConfig(cfg model.AppConfig) {
	a.config = cfg
	a.theme.SetThemeName(cfg.Theme)
	a.app.Settings().SetTheme(a.theme)
	a.SetupMenus()
}

// showImportExportDialog displays the backup and restore dialog. A backup
// holds the settings and every plan in the view history.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		plans := a.state.Plans()
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			path := writer.URI().Path()
			writer.Close()
			if err := project.ExportAllData(path, a.config, plans); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Settings and %d plans exported to:\n%s", len(plans), path), a.window)
			}
		}, a.window)
		d.SetFileName("slabview-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your current application settings.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					path := reader.URI().Path()
					reader.Close()
					backup, err := project.ImportAllData(path)
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.restore(backup)
					if err := a.saveConfig(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
						return
					}
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Restored settings and %d plans from a backup created at %s.",
							len(backup.Plans), backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export settings and viewed plans to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// restore applies a backup: its settings replace the current ones and its
// plans are shown in order, the last one on screen.
func (a *App) restore(backup project.BackupData) {
	a.applyConfig(backup.Config)
	for _, p := range backup.Plans {
		a.state.Set(p, "")
	}
	a.refresh()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	if a.configPath == "" {
		return nil
	}
	return project.SaveAppConfig(a.configPath, a.config)
}
