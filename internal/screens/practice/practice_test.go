package practice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/parla/internal/llm"
	"github.com/abhisek/parla/internal/progress"
	"github.com/abhisek/parla/internal/speech"
	"github.com/abhisek/parla/internal/tutor"
)

const reply = "TARGET: ¡Hola! ¿Cómo estás hoy?\nEN: Hello! How are you today?\nALTERNATIVES:\n- ¿Qué tal?\nCORRECTIONS:\n- yo es -> yo soy"

func newScreen(t *testing.T, stream bool, responses ...llm.MockResponse) (*PracticeScreen, *tutor.Tutor) {
	t.Helper()
	prog := progress.Open(context.Background(), progress.NewFileBackend(filepath.Join(t.TempDir(), "progress.json")), nil)
	tt := tutor.New(llm.NewMockProvider(responses...), speech.TextFileTranscriber{}, nil, prog, tutor.DefaultConfig(), nil)
	settings := tutor.DefaultSettings()
	settings.Stream = stream
	return New(tt, tutor.NewSession(settings)), tt
}

func utterance(t *testing.T, text string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "turn.txt")
	require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
	return p
}

// drain runs cmd, expanding batches, and feeds every resulting message
// back into the screen until nothing is left.
func drain(t *testing.T, s *PracticeScreen, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case partialMsg, turnDoneMsg:
			seen = append(seen, msg)
			_, next := s.Update(msg)
			queue = append(queue, next)
		}
	}
	return seen
}

func TestSendTurn(t *testing.T) {
	s, tt := newScreen(t, false, llm.MockResponse{Text: reply})
	s.input.Model.SetValue(utterance(t, "Hola, yo es Ana"))

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, s.busy)

	drain(t, s, cmd)

	assert.False(t, s.busy)
	assert.Empty(t, s.errMsg)
	require.NotNil(t, s.last)
	assert.Equal(t, "Hello! How are you today?", s.last.Translation)
	require.Len(t, s.chat, 1)
	assert.Equal(t, "Hola, yo es Ana", s.chat[0].User)
	assert.Equal(t, "", s.input.Value(), "input cleared after a turn")
	assert.Equal(t, 1, tt.Progress().Data().Turns)

	view := s.View(100, 30)
	assert.Contains(t, view, "Translation")
	assert.Contains(t, view, "yo soy")
}

func TestStreamingTurnDeliversPartials(t *testing.T) {
	s, _ := newScreen(t, true, llm.MockResponse{Chunks: []string{"TARGET: ¡Hola!", "\nEN: Hello!"}})
	s.input.Model.SetValue(utterance(t, "Hola"))

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msgs := drain(t, s, cmd)

	require.NotEmpty(t, msgs)
	_, lastIsDone := msgs[len(msgs)-1].(turnDoneMsg)
	assert.True(t, lastIsDone || s.last != nil)
	require.NotNil(t, s.last)
	assert.Equal(t, "Hello!", s.last.Translation)
	assert.False(t, s.busy)
}

func TestEmptyPathShowsPlaceholder(t *testing.T) {
	s, tt := newScreen(t, false)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	drain(t, s, cmd)

	assert.Contains(t, s.errMsg, tutor.NoAudioText)
	assert.Nil(t, s.last)
	assert.Equal(t, 0, tt.Progress().Data().Turns)
}

func TestMissingFileIsRejectedLocally(t *testing.T) {
	s, _ := newScreen(t, false)
	s.input.Model.SetValue(filepath.Join(t.TempDir(), "nope.wav"))

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, s.busy)
}

func TestChatFailureShowsError(t *testing.T) {
	s, _ := newScreen(t, false, llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("slow down")}})
	s.input.Model.SetValue(utterance(t, "Hola"))

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	drain(t, s, cmd)

	assert.False(t, s.busy)
	assert.Equal(t, "The tutor is rate limited. Try again in a moment.", s.errMsg)
	assert.Nil(t, s.last)
	assert.Empty(t, s.chat)
}

func TestStaleResultIgnored(t *testing.T) {
	s, _ := newScreen(t, false)
	s.seq = 5
	s.busy = true

	s.Update(turnDoneMsg{Seq: 4, Result: tutor.TurnResult{Translation: "old"}})
	assert.True(t, s.busy)
	assert.Nil(t, s.last)
}

func TestResetClearsConversation(t *testing.T) {
	s, _ := newScreen(t, false, llm.MockResponse{Text: reply})
	s.input.Model.SetValue(utterance(t, "Hola"))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	drain(t, s, cmd)
	require.Len(t, s.chat, 1)

	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})

	assert.Empty(t, s.chat)
	assert.Nil(t, s.last)
	assert.Equal(t, 0, s.session.Turn())
	assert.Empty(t, s.session.History())
}

func TestResetDuringTurnWaitsForTurn(t *testing.T) {
	s, _ := newScreen(t, false, llm.MockResponse{Text: reply}, llm.MockResponse{Text: reply})
	s.input.Model.SetValue(utterance(t, "Hola"))
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	drain(t, s, cmd)
	require.Len(t, s.session.History(), 3)

	s.input.Model.SetValue(utterance(t, "Otra vez"))
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.True(t, s.busy)

	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	assert.True(t, s.resetPending)
	assert.Len(t, s.chat, 1, "conversation is kept until the turn returns")

	drain(t, s, cmd)
	assert.False(t, s.busy)
	assert.False(t, s.resetPending)
	assert.Empty(t, s.chat)
	assert.Nil(t, s.last)
	assert.Empty(t, s.session.History())
	assert.Equal(t, 0, s.session.Turn())
}

func TestTitleShowsScenario(t *testing.T) {
	s, _ := newScreen(t, false)
	assert.Equal(t, "Practice · Spanish", s.Title())

	s.session.Settings.Mode = tutor.ModeScenario
	assert.Equal(t, "Practice · Spanish · Restaurant", s.Title())
}

func TestTurnStreamKeepsNewestPartial(t *testing.T) {
	ts := newTurnStream()
	ts.publish(tutor.TurnResult{Turn: 1})
	ts.publish(tutor.TurnResult{Turn: 2})

	msg := ts.wait(7)()
	p, ok := msg.(partialMsg)
	require.True(t, ok)
	assert.Equal(t, 7, p.Seq)
	assert.Equal(t, 2, p.Result.Turn)

	close(ts.finished)
	assert.Nil(t, ts.wait(7)())
}
