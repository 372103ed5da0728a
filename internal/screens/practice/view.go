package practice

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/parla/internal/tutor"
	"github.com/abhisek/parla/internal/ui/components"
	"github.com/abhisek/parla/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	bottom := s.renderBottom(cw)
	vpHeight := max(height-lipgloss.Height(bottom)-1, 3)

	s.viewport.SetWidth(cw)
	s.viewport.SetHeight(vpHeight)
	atBottom := s.viewport.AtBottom()
	s.viewport.SetContent(renderChat(s.chat, cw))
	if atBottom || s.busy {
		s.viewport.GotoBottom()
	}

	body := s.viewport.View() + "\n" + bottom
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

// renderChat lays out the conversation as alternating learner and tutor
// blocks.
func renderChat(chat []tutor.ChatPair, width int) string {
	if len(chat) == 0 {
		return theme.Hint.Render("Record yourself speaking, then enter the file path below.")
	}
	var b strings.Builder
	for i, p := range chat {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.UserLabel.Render("You") + "\n")
		b.WriteString(wrap(p.User, width) + "\n")
		if p.Assistant != "" {
			b.WriteString(theme.TutorLabel.Render("Tutor") + "\n")
			b.WriteString(wrap(p.Assistant, width) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *PracticeScreen) renderBottom(cw int) string {
	var sections []string

	if s.last != nil && !s.busy {
		if s.last.Translation != "" {
			sections = append(sections, components.Card("Translation",
				theme.Translation.Render(wrap(s.last.Translation, cw-4)), cw))
		}
		notes := s.last.Extras
		if tip := s.last.Sections.Tip; tip != "" {
			if notes != "" {
				notes += "\n"
			}
			notes += theme.Tip.Render(tip)
		}
		if notes != "" {
			sections = append(sections, components.Card("Notes", wrap(notes, cw-4), cw))
		}
		if s.last.AudioPath != "" {
			sections = append(sections, theme.Hint.Render("Reply audio: "+s.last.AudioPath))
		}
	}

	switch {
	case s.busy:
		sections = append(sections, s.spinner.View()+" "+theme.Hint.Render("Listening and thinking..."))
	case s.errMsg != "":
		sections = append(sections, theme.Failure.Render(wrap(s.errMsg, cw)))
	}

	sections = append(sections, s.input.View())
	return strings.Join(sections, "\n")
}

func wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 10)).Render(text)
}
