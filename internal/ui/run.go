package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
)

// AppID identifies the viewer to the desktop for preferences storage.
const AppID = "com.piwi3910.slabview"

// Run opens the viewer window and blocks until it is closed.
func Run(opts Options) {
	application := app.NewWithID(AppID)

	window := application.NewWindow("SlabView")
	appUI := NewApp(application, window, opts)
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1100, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
