package stats

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parla/internal/progress"
	"github.com/abhisek/parla/internal/screen"
	"github.com/abhisek/parla/internal/ui/components"
	"github.com/abhisek/parla/internal/ui/layout"
	"github.com/abhisek/parla/internal/ui/theme"
)

// TopN is how many words the screen charts.
const TopN = 10

// StatsScreen shows lifetime counters and the most practised words.
type StatsScreen struct {
	store *progress.Store
	data  progress.Data
	top   []progress.WordCount

	confirmReset bool
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a stats screen reading from store.
func New(store *progress.Store) *StatsScreen {
	s := &StatsScreen{store: store}
	s.refresh()
	return s
}

func (s *StatsScreen) refresh() {
	s.data = s.store.Data()
	s.top = s.store.TopVocabulary(TopN)
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) Title() string {
	return "Progress"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	if s.confirmReset {
		return []layout.KeyHint{
			{Key: "Y", Description: "Erase progress"},
			{Key: "N", Description: "Keep it"},
		}
	}
	return []layout.KeyHint{
		{Key: "R", Description: "Reset progress"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ResumedMsg:
		s.refresh()
	case tea.KeyMsg:
		key := msg.String()
		if s.confirmReset {
			if key == "y" || key == "Y" {
				s.store.Reset(context.Background())
				s.refresh()
			}
			s.confirmReset = false
			return s, nil
		}
		if key == "r" || key == "R" {
			s.confirmReset = true
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, theme.Title.Width(cw).Render("Your progress"))

	summary := fmt.Sprintf("%s %d     %s %d     %s %d",
		theme.Hint.Render("turns"), s.data.Turns,
		theme.Hint.Render("corrections"), s.data.Corrections,
		theme.Hint.Render("words"), len(s.data.Vocabulary))
	sections = append(sections, components.Card("", summary, cw))

	sections = append(sections, components.Card("Top vocabulary", renderVocab(s.top, cw-4), cw))

	if s.confirmReset {
		sections = append(sections, theme.Failure.Render("Erase all progress? (y/n)"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n\n"))
}

func renderVocab(top []progress.WordCount, width int) string {
	if len(top) == 0 {
		return theme.Hint.Render("(none yet)")
	}
	labelWidth := 0
	for _, w := range top {
		labelWidth = max(labelWidth, lipgloss.Width(w.Word))
	}
	peak := top[0].Count
	lines := make([]string, len(top))
	for i, w := range top {
		lines[i] = components.NewCountBar(w.Word, w.Count, peak, labelWidth, width).View()
	}
	return strings.Join(lines, "\n")
}
