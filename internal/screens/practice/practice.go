package practice

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parla/internal/llm"
	"github.com/abhisek/parla/internal/screen"
	"github.com/abhisek/parla/internal/tutor"
	"github.com/abhisek/parla/internal/ui/components"
	"github.com/abhisek/parla/internal/ui/layout"
	"github.com/abhisek/parla/internal/ui/theme"
)

// PracticeScreen runs tutoring turns for one session. Each turn takes the
// path of a recording, so any recorder can feed it.
type PracticeScreen struct {
	tutor   *tutor.Tutor
	session *tutor.Session

	input    components.PathInput
	spinner  spinner.Model
	viewport viewport.Model

	busy         bool
	seq          int
	cancel       context.CancelFunc
	stream       *turnStream
	resetPending bool

	chat   []tutor.ChatPair
	last   *tutor.TurnResult
	errMsg string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.Closer = (*PracticeScreen)(nil)

// New creates a practice screen bound to sess, resuming its history.
func New(t *tutor.Tutor, sess *tutor.Session) *PracticeScreen {
	return &PracticeScreen{
		tutor:    t,
		session:  sess,
		input:    components.NewPathInput("path to a recording (empty sends nothing)", 60),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Tip)),
		viewport: viewport.New(),
		chat:     tutor.HistoryToChat(sess.History()),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *PracticeScreen) Title() string {
	st := s.session.Settings
	if st.Mode == tutor.ModeScenario {
		return fmt.Sprintf("Practice · %s · %s", st.TargetLanguage, st.Scenario)
	}
	return "Practice · " + st.TargetLanguage
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.busy {
		return []layout.KeyHint{
			{Key: "Ctrl+X", Description: "Cancel turn"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Ctrl+R", Description: "New conversation"},
		{Key: "Esc", Description: "Back"},
	}
}

// Close cancels any turn still in flight.
func (s *PracticeScreen) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case partialMsg:
		if msg.Seq != s.seq || !s.busy {
			return s, nil
		}
		s.chat = msg.Result.Chat
		s.viewport.GotoBottom()
		return s, s.stream.wait(msg.Seq)

	case turnDoneMsg:
		return s.handleDone(msg)

	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "pgup":
		s.viewport.PageUp()
		return s, nil
	case "pgdown":
		s.viewport.PageDown()
		return s, nil
	case "ctrl+x":
		s.Close()
		return s, nil
	case "ctrl+r":
		if s.busy {
			// The running turn holds the session; reset once it returns.
			s.resetPending = true
			s.Close()
			return s, nil
		}
		s.resetConversation()
		return s, nil
	case "enter":
		if s.busy {
			return s, nil
		}
		if !s.input.Submit() {
			return s, nil
		}
		return s, s.startTurn(s.input.Value())
	}

	if s.busy {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// startTurn launches a turn for the recording at path. An empty path
// yields the no-audio placeholder without touching the session.
func (s *PracticeScreen) startTurn(path string) tea.Cmd {
	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.busy = true
	s.errMsg = ""

	st := newTurnStream()
	s.stream = st
	t, sess := s.tutor, s.session

	run := func() tea.Msg {
		defer close(st.finished)
		res, err := t.Turn(ctx, sess, tutor.TurnInput{AudioPath: path}, st.publish)
		return turnDoneMsg{Seq: seq, Result: res, Err: err}
	}
	return tea.Batch(s.spinner.Tick, run, st.wait(seq))
}

func (s *PracticeScreen) handleDone(msg turnDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != s.seq {
		return s, nil
	}
	s.busy = false
	s.stream = nil
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if s.resetPending {
		s.resetPending = false
		s.resetConversation()
		return s, nil
	}

	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			s.errMsg = "Turn cancelled."
		} else {
			s.errMsg = llm.Describe(msg.Err)
		}
		s.chat = tutor.HistoryToChat(s.session.History())
		return s, nil
	}

	res := msg.Result
	if res.UserText == tutor.NoAudioText {
		s.errMsg = tutor.NoAudioText + "."
		return s, nil
	}
	s.last = &res
	s.chat = res.Chat
	s.input.Reset()
	s.viewport.GotoBottom()
	return s, nil
}

func (s *PracticeScreen) resetConversation() {
	s.session.Reset()
	s.chat = nil
	s.last = nil
	s.errMsg = ""
	s.input.Reset()
}
