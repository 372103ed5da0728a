package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: warm café tones with a teal accent for the tutor.
var (
	Primary   = lipgloss.Color("#E07A5F") // Terracotta
	Secondary = lipgloss.Color("#3D9A8B") // Teal
	Accent    = lipgloss.Color("#F2CC8F") // Sand
	Success   = lipgloss.Color("#81B29A") // Sage
	Error     = lipgloss.Color("#E63946") // Red
	Text      = lipgloss.Color("#F4F1DE") // Cream
	TextDim   = lipgloss.Color("#A8A29E") // Stone
	BgDark    = lipgloss.Color("#1C1917") // Espresso
	BgCard    = lipgloss.Color("#292524") // Roast
	Border    = lipgloss.Color("#44403C") // Walnut
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Warning = lipgloss.NewStyle().
		Foreground(Accent)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Conversation
var (
	UserLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	TutorLabel = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Translation = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	Tip = lipgloss.NewStyle().
		Foreground(Accent)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
