package usage

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parla/internal/llm"
	"github.com/abhisek/parla/internal/screen"
	"github.com/abhisek/parla/internal/store"
	"github.com/abhisek/parla/internal/ui/layout"
	"github.com/abhisek/parla/internal/ui/theme"
)

// Limit is how many recent requests the screen loads.
const Limit = 50

type usageLoadedMsg struct {
	Events    []store.LLMEvent
	ByPurpose []store.PurposeUsage
	Err       error
}

// UsageScreen lists recent model requests with token counts and latency.
type UsageScreen struct {
	eventRepo store.EventRepo
	events    []store.LLMEvent
	byPurpose []store.PurposeUsage
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*UsageScreen)(nil)
var _ screen.KeyHintProvider = (*UsageScreen)(nil)

// New creates a new UsageScreen.
func New(eventRepo store.EventRepo) *UsageScreen {
	return &UsageScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *UsageScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		ctx := context.Background()

		events, err := repo.QueryLLMEvents(ctx, store.QueryOpts{Limit: Limit})
		if err != nil {
			return usageLoadedMsg{Err: err}
		}
		byPurpose, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return usageLoadedMsg{Events: events}
		}
		return usageLoadedMsg{Events: events, ByPurpose: byPurpose}
	}
}

func (s *UsageScreen) Title() string {
	return "Model usage"
}

func (s *UsageScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *UsageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case usageLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
			s.byPurpose = msg.ByPurpose
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *UsageScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading usage...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No model requests yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for _, p := range s.byPurpose {
		line := fmt.Sprintf("%s  %d calls  %d in / %d out tokens  avg %dms",
			p.Purpose, p.Calls, p.InputTokens, p.OutputTokens, p.AvgLatencyMs)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Tip.Render(line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, ev := range s.events {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		mode := "sync"
		if ev.Streamed {
			mode = "stream"
		}
		line := fmt.Sprintf("%s%s  %-10s %-6s %5d tok  %5dms",
			prefix, ev.Timestamp.Local().Format("Jan 02 15:04"), ev.Provider, mode,
			ev.InputTokens+ev.OutputTokens, ev.LatencyMs)

		style := lipgloss.NewStyle().Foreground(statusColor(ev))
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Hint.Render(detailLine(ev))))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func detailLine(ev store.LLMEvent) string {
	purpose := ev.Purpose
	if purpose == "" {
		purpose = llm.PurposeTutorReply
	}
	line := fmt.Sprintf("    %s  %s  in %d  out %d", ev.Model, purpose, ev.InputTokens, ev.OutputTokens)
	if mc := llm.LookupCost(ev.Model); mc != nil {
		if mc.Local {
			line += "  local"
		} else {
			line += fmt.Sprintf("  ~$%.4f", mc.Cost(ev.InputTokens, ev.OutputTokens))
		}
	}
	if !ev.Success {
		line += "  error: " + ev.ErrorMessage
	}
	return line
}

func statusColor(ev store.LLMEvent) color.Color {
	if !ev.Success {
		return theme.Error
	}
	return theme.Text
}
