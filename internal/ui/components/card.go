package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parla/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for boxed sections.
func ContentWidth(frameWidth int) int {
	// Leave room for the frame border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 72)
}

// Frame wraps content in a rounded border, centered within the given
// dimensions.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a titled rounded-border card at the given width.
func Card(title, content string, cw int) string {
	body := content
	if title != "" {
		body = theme.Selected.Render(title) + "\n" + content
	}
	return theme.Card.
		Width(cw).
		Render(body)
}
