package settings

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parla/internal/router"
	"github.com/abhisek/parla/internal/screen"
	"github.com/abhisek/parla/internal/tutor"
	"github.com/abhisek/parla/internal/ui/components"
	"github.com/abhisek/parla/internal/ui/layout"
	"github.com/abhisek/parla/internal/ui/theme"
)

// BaseLanguages are the explanation languages offered.
var BaseLanguages = []string{"English", "Spanish", "French", "German", "Italian"}

type field int

const (
	fieldTarget field = iota
	fieldBase
	fieldMode
	fieldScenario
	fieldStream
	fieldCount
)

// SettingsScreen edits session settings. Saving starts a new conversation.
type SettingsScreen struct {
	settings tutor.Settings
	cursor   field
	onSave   func(tutor.Settings)
}

var _ screen.Screen = (*SettingsScreen)(nil)
var _ screen.KeyHintProvider = (*SettingsScreen)(nil)

// New creates a settings screen starting from current. onSave receives the
// edited settings when the user confirms.
func New(current tutor.Settings, onSave func(tutor.Settings)) *SettingsScreen {
	return &SettingsScreen{settings: current, onSave: onSave}
}

func (s *SettingsScreen) Init() tea.Cmd {
	return nil
}

func (s *SettingsScreen) Title() string {
	return "Settings"
}

func (s *SettingsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Discard"},
	}
}

// Settings returns the settings as currently edited.
func (s *SettingsScreen) Settings() tutor.Settings {
	return s.settings
}

func (s *SettingsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		s.move(-1)
	case "down", "j", "tab":
		s.move(1)
	case "left", "h":
		s.change(-1)
	case "right", "l", "space":
		s.change(1)
	case "enter":
		if s.onSave != nil {
			s.onSave(s.settings)
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *SettingsScreen) move(delta int) {
	next := s.cursor
	for {
		next = (next + field(delta) + fieldCount) % fieldCount
		if next != fieldScenario || s.settings.Mode == tutor.ModeScenario {
			break
		}
	}
	s.cursor = next
}

func (s *SettingsScreen) change(delta int) {
	switch s.cursor {
	case fieldTarget:
		s.settings.TargetLanguage = cycle(tutor.Languages, s.settings.TargetLanguage, delta)
	case fieldBase:
		s.settings.BaseLanguage = cycle(BaseLanguages, s.settings.BaseLanguage, delta)
	case fieldMode:
		s.settings.Mode = cycle(tutor.Modes, s.settings.Mode, delta)
	case fieldScenario:
		s.settings.Scenario = cycle(tutor.Scenarios, s.settings.Scenario, delta)
	case fieldStream:
		s.settings.Stream = !s.settings.Stream
	}
}

// cycle steps through options from current, wrapping at both ends. An
// unknown current value starts from the first option.
func cycle[T comparable](options []T, current T, delta int) T {
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	n := len(options)
	return options[((i+delta)%n+n)%n]
}

func (s *SettingsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	rows := []struct {
		f     field
		label string
		value string
	}{
		{fieldTarget, "Practice language", s.settings.TargetLanguage},
		{fieldBase, "Explain in", s.settings.BaseLanguage},
		{fieldMode, "Mode", string(s.settings.Mode)},
		{fieldScenario, "Scenario", s.settings.Scenario},
		{fieldStream, "Stream replies", onOff(s.settings.Stream)},
	}

	var b strings.Builder
	for _, r := range rows {
		label := fmt.Sprintf("%-18s", r.label)
		value := "‹ " + r.value + " ›"
		switch {
		case r.f == fieldScenario && s.settings.Mode != tutor.ModeScenario:
			b.WriteString(theme.Hint.Render("    " + label + r.value))
		case r.f == s.cursor:
			b.WriteString(theme.Selected.Render("  ▸ "+label) + theme.Selected.Render(value))
		default:
			b.WriteString(theme.Unselected.Render("    "+label) + theme.Body.Render(r.value))
		}
		b.WriteByte('\n')
	}

	note := theme.Hint.Render("Saving starts a new conversation.")
	content := components.Card("Session", strings.TrimRight(b.String(), "\n"), cw) + "\n\n" + note
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
