// Package ui provides the SlabView desktop viewer: a window that shows the
// sheet diagrams of one cutting plan at a time, with file, export and
// navigation menus.
package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/piwi3910/SlabView/internal/diagram"
	"github.com/piwi3910/SlabView/internal/export"
	"github.com/piwi3910/SlabView/internal/importer"
	"github.com/piwi3910/SlabView/internal/model"
	"github.com/piwi3910/SlabView/internal/project"
	"github.com/piwi3910/SlabView/internal/ui/widgets"
)

// Options configure a viewer window.
type Options struct {
	Config     model.AppConfig
	ConfigPath string // where config changes are saved; "" disables saving
	Plan       *model.CuttingPlan
	PlanPath   string
	Logger     *log.Logger
	Version    string
}

// App holds all application state and UI references.
type App struct {
	app        fyne.App
	window     fyne.Window
	config     model.AppConfig
	configPath string
	logger     *log.Logger
	version    string
	theme      *SlabViewTheme
	state      *PlanState

	// UI references for dynamic updates
	diagrams   *widgets.PlanDiagrams
	status     *widget.Label
	backBtn    *ttwidget.Button
	forwardBtn *ttwidget.Button
	resetBtn   *ttwidget.Button
}

func NewApp(application fyne.App, window fyne.Window, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		app:        application,
		window:     window,
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     logger,
		version:    opts.Version,
		theme:      NewSlabViewTheme(opts.Config.Theme),
		state:      NewPlanState(),
	}
	if opts.Plan != nil {
		a.state.Set(*opts.Plan, opts.PlanPath)
	}
	return a
}

// SetupMenus creates the native menu bar for the application. It is called
// again whenever the recent plans change.
func (a *App) SetupMenus() {
	recent := fyne.NewMenuItem("Open Recent", nil)
	recent.ChildMenu = a.recentMenu()
	recent.Disabled = len(a.config.RecentPlans) == 0

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Plan...", a.openPlanDialog),
		recent,
		fyne.NewMenuItem("Save Plan As...", a.savePlanAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Table (CSV, Excel)...", a.importTableDialog),
		fyne.NewMenuItem("Import DXF Layout...", a.importDXFDialog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF Report...", func() { a.exportFile("PDF report", ".pdf", a.writePDF) }),
		fyne.NewMenuItem("Export SVG...", func() { a.exportFile("SVG", ".svg", a.writeSVG) }),
		fyne.NewMenuItem("Export DXF...", func() { a.exportFile("DXF", ".dxf", a.writeDXF) }),
		fyne.NewMenuItem("Export Part Labels...", func() { a.exportFile("labels", "-labels.pdf", a.writeLabels) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Settings...", a.showSettingsDialog),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Back", a.back),
		fyne.NewMenuItem("Forward", a.forward),
		fyne.NewMenuItem("Clear", a.reset),
		fyne.NewMenuItemSeparator(),
		a.themeItem("System Theme", ThemeSystem),
		a.themeItem("Light Theme", ThemeLight),
		a.themeItem("Dark Theme", ThemeDark),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

func (a *App) recentMenu() *fyne.Menu {
	items := make([]*fyne.MenuItem, 0, len(a.config.RecentPlans))
	for _, p := range a.config.RecentPlans {
		path := p
		items = append(items, fyne.NewMenuItem(path, func() { a.OpenFile(path) }))
	}
	return fyne.NewMenu("", items...)
}

func (a *App) themeItem(label, name string) *fyne.MenuItem {
	item := fyne.NewMenuItem(label, func() {
		a.theme.SetThemeName(name)
		a.app.Settings().SetTheme(a.theme)
		a.config.Theme = name
		a.persistConfig()
		a.SetupMenus()
	})
	item.Checked = a.config.Theme == name || (name == ThemeSystem && a.config.Theme == "")
	return item
}

func (a *App) showAboutDialog() {
	version := a.version
	if version == "" {
		version = "dev"
	}
	dialog.ShowInformation(
		"About SlabView",
		"SlabView: Cutting Plan Viewer\n\n"+
			"Shows the sheet layouts of a panel-saw cutting plan\n"+
			"and exports them as PDF, SVG, DXF and part labels.\n\n"+
			"Version "+version,
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.app.Settings().SetTheme(a.theme)

	a.diagrams = widgets.NewPlanDiagrams()
	a.status = widget.NewLabel("")

	openBtn := newIconButtonWithTooltip(theme.FolderOpenIcon(), "Open plan (Ctrl+O)", a.openPlanDialog)
	importBtn := newIconButtonWithTooltip(theme.UploadIcon(), "Import table or DXF layout", a.importTableDialog)
	pdfBtn := newIconButtonWithTooltip(theme.DocumentPrintIcon(), "Export PDF report", func() {
		a.exportFile("PDF report", ".pdf", a.writePDF)
	})
	a.backBtn = newIconButtonWithTooltip(theme.NavigateBackIcon(), "Back to previous plan", a.back)
	a.forwardBtn = newIconButtonWithTooltip(theme.NavigateNextIcon(), "Forward", a.forward)
	a.resetBtn = newIconButtonWithTooltip(theme.ContentClearIcon(), "Clear view", a.reset)

	toolbar := container.NewHBox(
		openBtn, importBtn, pdfBtn,
		widget.NewSeparator(),
		a.backBtn, a.forwardBtn, a.resetBtn,
		layout.NewSpacer(),
	)

	a.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyO,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) { a.openPlanDialog() })

	a.refresh()

	return container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		container.NewVBox(widget.NewSeparator(), a.status),
		nil, nil,
		container.NewVScroll(a.diagrams),
	)
}

// refresh redraws the diagrams, status line and navigation buttons from the
// plan state.
func (a *App) refresh() {
	a.diagrams.SetPlan(a.state.Plan())

	title := "SlabView"
	if t := a.state.Title(); t != "" {
		title = t + " · SlabView"
	}
	a.window.SetTitle(title)
	a.status.SetText(statusText(a.state))

	setEnabled(a.backBtn, a.state.CanBack())
	setEnabled(a.forwardBtn, a.state.CanForward())
	setEnabled(a.resetBtn, a.state.Loaded())
}

func setEnabled(b *ttwidget.Button, enabled bool) {
	if b == nil {
		return
	}
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

// statusText summarizes the shown plan for the status bar.
func statusText(s *PlanState) string {
	plan := s.Plan()
	if plan == nil {
		return "No plan loaded"
	}
	parts := []string{
		plural(plan.SheetsUsed(), "sheet"),
		diagram.PieceCount(plan.CutCount()),
		fmt.Sprintf("%.1f%% efficiency", plan.TotalEfficiency()),
	}
	if n := len(plan.UnplacedCuts); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unplaced", n))
	}
	return s.Title() + ": " + strings.Join(parts, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// ─── Navigation ────────────────────────────────────────────

func (a *App) back() {
	if a.state.Back() {
		a.refresh()
	}
}

func (a *App) forward() {
	if a.state.Forward() {
		a.refresh()
	}
}

func (a *App) reset() {
	a.state.Reset()
	a.refresh()
}

// ─── Open / Import ─────────────────────────────────────────

// OpenFile loads a plan file, assignment table or DXF layout and shows it.
func (a *App) OpenFile(path string) {
	result := importer.Load(path)
	if !a.handleImportResult(path, result) {
		return
	}
	a.state.Set(result.Plan, path)
	a.config.AddRecentPlan(path)
	a.persistConfig()
	a.SetupMenus()
	a.refresh()
}

// handleImportResult reports errors and warnings of an import and returns
// whether its plan can be shown.
func (a *App) handleImportResult(path string, result importer.ImportResult) bool {
	name := filepath.Base(path)
	for _, w := range result.Warnings {
		a.logger.Warn(w, "file", name)
	}
	if len(result.Errors) > 0 {
		a.logger.Error("import failed", "file", name, "errors", len(result.Errors))
		errorMsg := "Errors encountered while reading " + name + ":\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
		return false
	}
	if len(result.Plan.SheetPlans) == 0 {
		dialog.ShowInformation("Nothing to show", name+" contains no sheets.", a.window)
		return false
	}
	a.logger.Info("opened plan", "file", name, "sheets", result.Plan.SheetsUsed(), "cuts", result.Plan.CutCount())
	return true
}

func (a *App) openPlanDialog() {
	a.showOpenDialog([]string{".json", ".yaml", ".yml"})
}

func (a *App) importTableDialog() {
	a.showOpenDialog([]string{".csv", ".tsv", ".txt", ".xlsx", ".xlsm"})
}

func (a *App) importDXFDialog() {
	a.showOpenDialog([]string{".dxf"})
}

func (a *App) showOpenDialog(extensions []string) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.OpenFile(path)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(extensions))
	a.startIn(d)
	d.Show()
}

// startIn points a file dialog at the configured output directory.
func (a *App) startIn(d *dialog.FileDialog) {
	if a.config.OutputDir == "" {
		return
	}
	if dir, err := storage.ListerForURI(storage.NewFileURI(a.config.OutputDir)); err == nil {
		d.SetLocation(dir)
	}
}

// ─── Save / Export ─────────────────────────────────────────

func (a *App) savePlanAs() {
	a.exportFile("plan", ".json", func(path string, plan model.CuttingPlan) error {
		if err := project.SavePlan(path, plan); err != nil {
			return err
		}
		a.config.AddRecentPlan(path)
		a.persistConfig()
		a.SetupMenus()
		return nil
	})
}

func (a *App) containerWidth() float64 {
	if w := a.diagrams.View().ContainerWidth; w > 0 {
		return w
	}
	return a.config.ContainerWidth()
}

func (a *App) writePDF(path string, plan model.CuttingPlan) error {
	return export.ExportPDF(path, plan, a.containerWidth())
}

func (a *App) writeDXF(path string, plan model.CuttingPlan) error {
	return export.ExportDXF(path, plan)
}

func (a *App) writeLabels(path string, plan model.CuttingPlan) error {
	return export.ExportLabels(path, plan)
}

func (a *App) writeSVG(path string, plan model.CuttingPlan) error {
	return writeFile(path, func(w io.Writer) error {
		return export.WritePlanSVG(w, diagram.RenderPlan(plan, a.containerWidth()))
	})
}

// exportFile asks for a destination and writes the shown plan there.
func (a *App) exportFile(what, ext string, write func(path string, plan model.CuttingPlan) error) {
	plan := a.state.Plan()
	if plan == nil {
		dialog.ShowInformation("No plan", "Open a plan before exporting.", a.window)
		return
	}

	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := write(path, *plan); err != nil {
			a.logger.Error("export failed", "kind", what, "path", path, "err", err)
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("exported", "kind", what, "path", path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("%s saved to %s", what, path), a.window)
	}, a.window)
	d.SetFileName(defaultFileName(a.state.Path(), ext))
	a.startIn(d)
	d.Show()
}

// writeFile creates path and streams fn's output into it.
func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// defaultFileName derives an output name from the plan's source file.
func defaultFileName(source, ext string) string {
	base := "cutting-plan"
	if source != "" {
		base = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	return base + ext
}

// persistConfig saves the config after a background change such as a new
// recent plan, logging instead of interrupting the user on failure.
func (a *App) persistConfig() {
	if err := a.saveConfig(); err != nil {
		a.logger.Warn("could not save settings", "path", a.configPath, "err", err)
	}
}
