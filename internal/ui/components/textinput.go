package components

import (
	"os"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/parla/internal/ui/theme"
)

// PathInput wraps bubbles/textinput for entering a recording's file path.
type PathInput struct {
	Model     textinput.Model
	submitted bool
	valid     bool
}

// NewPathInput creates a focused path input.
func NewPathInput(placeholder string, width int) PathInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 1024
	if width > 0 {
		ti.SetWidth(width)
	}
	ti.Focus()
	return PathInput{Model: ti}
}

// Init returns the initial command.
func (p PathInput) Init() tea.Cmd {
	return p.Model.Focus()
}

// Update handles messages. Editing clears any previous validation mark.
func (p PathInput) Update(msg tea.Msg) (PathInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		p.submitted = false
	}
	var cmd tea.Cmd
	p.Model, cmd = p.Model.Update(msg)
	return p, cmd
}

// View renders the input with a mark once submitted.
func (p PathInput) View() string {
	view := p.Model.View()
	if p.submitted {
		if p.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ not found")
		}
	}
	return view
}

// Value returns the entered path with a leading ~ expanded. Empty input
// yields "".
func (p PathInput) Value() string {
	v := strings.TrimSpace(p.Model.Value())
	if rest, ok := strings.CutPrefix(v, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			v = filepath.Join(home, rest)
		}
	}
	return v
}

// Submit marks the input as submitted and reports whether the path names
// an existing regular file. An empty path is valid.
func (p *PathInput) Submit() bool {
	p.submitted = true
	path := p.Value()
	if path == "" {
		p.valid = true
		return true
	}
	info, err := os.Stat(path)
	p.valid = err == nil && info.Mode().IsRegular()
	return p.valid
}

// Reset clears the input.
func (p *PathInput) Reset() {
	p.Model.Reset()
	p.submitted = false
}
