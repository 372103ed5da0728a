package home

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parla/internal/ui/theme"
)

const titleFull = ` ██████╗  █████╗ ██████╗ ██╗      █████╗
 ██╔══██╗██╔══██╗██╔══██╗██║     ██╔══██╗
 ██████╔╝███████║██████╔╝██║     ███████║
 ██╔═══╝ ██╔══██║██╔══██╗██║     ██╔══██║
 ██║     ██║  ██║██║  ██║███████╗██║  ██║
 ╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝`

const titleCompact = "P · A · R · L · A"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title))
}

// renderSessionLine summarises the active session settings.
func renderSessionLine(parts []string, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Secondary).
		Render(strings.Join(parts, "  ·  "))
}

// renderNotice renders a one-line warning, e.g. when saved progress could
// not be read.
func renderNotice(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + text)
}
