package tutor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryToChat(t *testing.T) {
	history := []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "u1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleAssistant, Content: "orphan"},
		{Role: RoleUser, Content: "u2"},
		{Role: RoleUser, Content: "u3"},
		{Role: RoleAssistant, Content: "a3"},
		{Role: RoleUser, Content: "unanswered"},
	}

	assert.Equal(t, []ChatPair{
		{User: "u1", Assistant: "a1"},
		{User: "u3", Assistant: "a3"},
	}, HistoryToChat(history))

	assert.Empty(t, HistoryToChat(nil))
}

func TestSessionDefaultsAndReset(t *testing.T) {
	a := NewSession(Settings{})
	b := NewSession(Settings{TargetLanguage: "German"})

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, DefaultTargetLanguage, a.Settings.TargetLanguage)
	assert.Equal(t, "German", b.Settings.TargetLanguage)
	assert.Equal(t, ModeConversation, b.Settings.Mode)

	a.conv.append(RoleSystem, "sys")
	a.conv.append(RoleUser, "hi")
	a.conv.Turn = 1

	a.Reset()
	assert.Empty(t, a.History())
	assert.Equal(t, 0, a.Turn())
}

func TestSessionHistoryIsCopy(t *testing.T) {
	s := NewSession(Settings{})
	s.conv.append(RoleUser, "hola")

	h := s.History()
	h[0].Content = "changed"

	assert.Equal(t, "hola", s.History()[0].Content)
}
