// Package styles provides the lipgloss styles used by virtdock's CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#00ccff")
	ColorWarning   = lipgloss.Color("#fbbf24")
	ColorText      = lipgloss.Color("#e5e5e5")
	ColorTextMuted = lipgloss.Color("#737373")
	ColorBorder    = lipgloss.Color("#404040")
)

// Theme contains the composed styles for CLI output.
var Theme = struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style

	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	TableBorder lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary),

	Muted: lipgloss.NewStyle().
		Foreground(ColorTextMuted),

	Warning: lipgloss.NewStyle().
		Foreground(ColorWarning),

	TableHeader: lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Padding(0, 1),

	TableCell: lipgloss.NewStyle().
		Foreground(ColorText).
		Padding(0, 1),

	TableBorder: lipgloss.NewStyle().
		Foreground(ColorBorder),
}

// RenderWarning renders a warning line.
func RenderWarning(msg string) string {
	return Theme.Warning.Render("! " + msg)
}
