package settings

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/parla/internal/router"
	"github.com/abhisek/parla/internal/tutor"
)

func special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestCycleWraps(t *testing.T) {
	opts := []string{"a", "b", "c"}
	assert.Equal(t, "b", cycle(opts, "a", 1))
	assert.Equal(t, "a", cycle(opts, "c", 1))
	assert.Equal(t, "c", cycle(opts, "a", -1))
	assert.Equal(t, "a", cycle(opts, "zzz", 1))
}

func TestChangeTargetLanguage(t *testing.T) {
	s := New(tutor.DefaultSettings(), nil)
	s.Update(special(tea.KeyRight))
	assert.Equal(t, "French", s.Settings().TargetLanguage)
	s.Update(special(tea.KeyLeft))
	s.Update(special(tea.KeyLeft))
	assert.Equal(t, "Italian", s.Settings().TargetLanguage)
}

func TestScenarioFieldSkippedInConversationMode(t *testing.T) {
	s := New(tutor.DefaultSettings(), nil)
	s.cursor = fieldMode
	s.Update(special(tea.KeyDown))
	assert.Equal(t, fieldStream, s.cursor)

	s.cursor = fieldMode
	s.Update(special(tea.KeyRight))
	require.Equal(t, tutor.ModeScenario, s.Settings().Mode)
	s.Update(special(tea.KeyDown))
	assert.Equal(t, fieldScenario, s.cursor)

	s.Update(special(tea.KeyRight))
	assert.Equal(t, "Hotel", s.Settings().Scenario)
}

func TestStreamToggle(t *testing.T) {
	s := New(tutor.DefaultSettings(), nil)
	s.cursor = fieldStream
	s.Update(special(tea.KeyRight))
	assert.True(t, s.Settings().Stream)
	assert.Contains(t, s.View(100, 30), "on")
}

func TestEnterSavesAndPops(t *testing.T) {
	var saved *tutor.Settings
	s := New(tutor.DefaultSettings(), func(st tutor.Settings) { saved = &st })
	s.Update(special(tea.KeyRight))

	_, cmd := s.Update(special(tea.KeyEnter))
	require.NotNil(t, saved)
	assert.Equal(t, "French", saved.TargetLanguage)
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}
