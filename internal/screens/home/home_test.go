package home

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/parla/internal/llm"
	"github.com/abhisek/parla/internal/progress"
	"github.com/abhisek/parla/internal/router"
	"github.com/abhisek/parla/internal/screens/practice"
	"github.com/abhisek/parla/internal/screens/settings"
	"github.com/abhisek/parla/internal/screens/stats"
	"github.com/abhisek/parla/internal/screens/usage"
	"github.com/abhisek/parla/internal/speech"
	"github.com/abhisek/parla/internal/store"
	"github.com/abhisek/parla/internal/tutor"
)

func newTutor(t *testing.T, progressPath string) *tutor.Tutor {
	t.Helper()
	prog := progress.Open(context.Background(), progress.NewFileBackend(progressPath), nil)
	return tutor.New(llm.NewMockProvider(), speech.TextFileTranscriber{}, nil, prog, tutor.DefaultConfig(), nil)
}

func openEvents(t *testing.T) store.EventRepo {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "parla.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st.EventRepo()
}

func selectItem(t *testing.T, h *HomeScreen, index int) tea.Msg {
	t.Helper()
	for range index {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	return cmd()
}

func TestMenuPushesScreens(t *testing.T) {
	tests := []struct {
		index int
		check func(t *testing.T, msg tea.Msg)
	}{
		{0, func(t *testing.T, msg tea.Msg) {
			push, ok := msg.(router.PushScreenMsg)
			require.True(t, ok)
			assert.IsType(t, &practice.PracticeScreen{}, push.Screen)
		}},
		{1, func(t *testing.T, msg tea.Msg) {
			push, ok := msg.(router.PushScreenMsg)
			require.True(t, ok)
			assert.IsType(t, &stats.StatsScreen{}, push.Screen)
		}},
		{2, func(t *testing.T, msg tea.Msg) {
			push, ok := msg.(router.PushScreenMsg)
			require.True(t, ok)
			assert.IsType(t, &settings.SettingsScreen{}, push.Screen)
		}},
		{3, func(t *testing.T, msg tea.Msg) {
			push, ok := msg.(router.PushScreenMsg)
			require.True(t, ok)
			assert.IsType(t, &usage.UsageScreen{}, push.Screen)
		}},
		{4, func(t *testing.T, msg tea.Msg) {
			assert.IsType(t, tea.QuitMsg{}, msg)
		}},
	}
	for _, tt := range tests {
		h := New(newTutor(t, filepath.Join(t.TempDir(), "p.json")), tutor.DefaultSettings(), openEvents(t))
		tt.check(t, selectItem(t, h, tt.index))
	}
}

func TestSettingsSaveReplacesSession(t *testing.T) {
	h := New(newTutor(t, filepath.Join(t.TempDir(), "p.json")), tutor.DefaultSettings(), nil)
	before := h.Session()

	push := selectItem(t, h, 2).(router.PushScreenMsg)
	s := push.Screen.(*settings.SettingsScreen)
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	assert.NotEqual(t, before.ID, h.Session().ID)
	assert.Equal(t, "French", h.Session().Settings.TargetLanguage)
	assert.Contains(t, h.View(120, 40), "French")
}

func TestCorruptProgressNotice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	h := New(newTutor(t, path), tutor.DefaultSettings(), nil)
	assert.NotEmpty(t, h.notice)
	assert.Contains(t, h.View(120, 40), "unreadable")
}

func TestUsageDisabledWithoutEvents(t *testing.T) {
	h := New(newTutor(t, filepath.Join(t.TempDir(), "p.json")), tutor.DefaultSettings(), nil)
	for range 3 {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd(), "usage is skipped, so the fourth enabled item is quit")
}
