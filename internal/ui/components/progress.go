package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parla/internal/ui/theme"
)

// CountBar displays a labelled horizontal bar scaled against Max, followed
// by the raw count.
type CountBar struct {
	Label      string
	LabelWidth int
	Count      int
	Max        int
	Width      int
}

// NewCountBar creates a new count bar.
func NewCountBar(label string, count, maxCount, labelWidth, width int) CountBar {
	return CountBar{
		Label:      label,
		LabelWidth: labelWidth,
		Count:      count,
		Max:        maxCount,
		Width:      width,
	}
}

// Fraction returns Count/Max clamped to [0, 1].
func (b CountBar) Fraction() float64 {
	if b.Max <= 0 || b.Count <= 0 {
		return 0
	}
	return min(float64(b.Count)/float64(b.Max), 1)
}

// View renders the bar.
func (b CountBar) View() string {
	label := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(max(b.LabelWidth, lipgloss.Width(b.Label))).
		Render(b.Label)
	count := fmt.Sprintf("  %d", b.Count)

	barWidth := max(b.Width-lipgloss.Width(label)-len(count)-2, 4)
	filled := int(float64(barWidth) * b.Fraction())
	if b.Count > 0 && filled == 0 {
		filled = 1
	}

	return label + "  " +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(count)
}
