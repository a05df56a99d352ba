package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - headings
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)

	styleKey = lipgloss.NewStyle().Foreground(colorDim).Width(12)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconError   = "✗"
	iconArrow   = "→"
)

// keyValue renders an aligned "key value" line.
func keyValue(key string, value any) string {
	return styleKey.Render(key) + styleValue.Render(fmt.Sprint(value))
}

func successLine(msg string) string {
	return styleSuccess.Render(iconSuccess) + " " + msg
}

func warningLine(msg string) string {
	return styleWarning.Render(iconWarning) + " " + msg
}

func errorLine(msg string) string {
	return styleError.Render(iconError) + " " + msg
}
