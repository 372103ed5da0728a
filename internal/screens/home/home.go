package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parla/internal/progress"
	"github.com/abhisek/parla/internal/router"
	"github.com/abhisek/parla/internal/screen"
	"github.com/abhisek/parla/internal/screens/practice"
	"github.com/abhisek/parla/internal/screens/settings"
	"github.com/abhisek/parla/internal/screens/stats"
	"github.com/abhisek/parla/internal/screens/usage"
	"github.com/abhisek/parla/internal/store"
	"github.com/abhisek/parla/internal/tutor"
	"github.com/abhisek/parla/internal/ui/components"
	"github.com/abhisek/parla/internal/ui/layout"
)

// HomeScreen is the main menu. It owns the active tutoring session, which
// the settings screen replaces.
type HomeScreen struct {
	tutor   *tutor.Tutor
	session *tutor.Session
	menu    components.Menu
	notice  string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen with a fresh session using initial settings.
// events may be nil, which disables the usage screen.
func New(t *tutor.Tutor, initial tutor.Settings, events store.EventRepo) *HomeScreen {
	h := &HomeScreen{
		tutor:   t,
		session: tutor.NewSession(initial),
	}
	if out := t.Progress().Outcome(); out.Status == progress.Corrupt {
		h.notice = "Saved progress was unreadable; starting from zero."
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "PRACTICE", Description: "Speak, get a reply and corrections", Action: func() tea.Cmd {
			return push(practice.New(h.tutor, h.session))
		}},
		{Label: "PROGRESS", Description: "Turns, corrections and top words", Action: func() tea.Cmd {
			return push(stats.New(h.tutor.Progress()))
		}},
		{Label: "SETTINGS", Description: "Language, mode and scenario", Action: func() tea.Cmd {
			return push(settings.New(h.session.Settings, h.replaceSession))
		}},
		{Label: "USAGE", Description: "Recent model requests and tokens", Disabled: events == nil, Action: func() tea.Cmd {
			return push(usage.New(events))
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

// replaceSession starts a new conversation with the given settings.
func (h *HomeScreen) replaceSession(st tutor.Settings) {
	h.session = tutor.NewSession(st)
}

// Session returns the active tutoring session.
func (h *HomeScreen) Session() *tutor.Session {
	return h.session
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back the header and footer
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	st := h.session.Settings
	line := []string{st.TargetLanguage, string(st.Mode)}
	if st.Mode == tutor.ModeScenario {
		line = append(line, st.Scenario)
	}
	if turn := h.session.Turn(); turn > 0 {
		line = append(line, "conversation in progress")
	}

	sections := []string{renderTitle(cw, compact), renderSessionLine(line, cw)}
	if h.notice != "" {
		sections = append(sections, renderNotice(h.notice, cw))
	}
	sections = append(sections, components.Card("", strings.TrimRight(h.menu.View(), "\n"), cw))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
