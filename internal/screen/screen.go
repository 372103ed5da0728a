package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parla/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ResumedMsg is delivered to a screen when the screen above it is popped,
// so it can refresh anything that may have changed meanwhile.
type ResumedMsg struct{}

// Closer is an optional interface for screens that own background work.
// The router calls Close when the screen is popped.
type Closer interface {
	Close()
}
