package progress

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackendMissing(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "nope.json"))
	_, err := b.Load(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileBackendSaveCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "progress.json")
	b := NewFileBackend(path)

	err := b.Save(context.Background(), Data{Turns: 1, Vocabulary: map[string]int{"hola": 1}})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"turns":1,"corrections":0,"vocabulary":{"hola":1}}`, string(raw))
}

func TestFileBackendSaveNilVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	b := NewFileBackend(path)

	require.NoError(t, b.Save(context.Background(), Data{Turns: 2}))

	d, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Turns)
	assert.NotNil(t, d.Vocabulary)
}

func TestFileBackendCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{turns: 1`},
		{"empty file", ``},
		{"array", `[1, 2, 3]`},
		{"missing vocabulary", `{"turns": 1, "corrections": 0}`},
		{"string turns", `{"turns": "3", "corrections": 0, "vocabulary": {}}`},
		{"negative corrections", `{"turns": 1, "corrections": -1, "vocabulary": {}}`},
		{"fractional count", `{"turns": 1, "corrections": 0, "vocabulary": {"hola": 1.5}}`},
		{"zero count", `{"turns": 1, "corrections": 0, "vocabulary": {"hola": 0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "progress.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := NewFileBackend(path).Load(context.Background())
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrNotFound))

			s := Open(context.Background(), NewFileBackend(path), nil)
			assert.Equal(t, Corrupt, s.Outcome().Status)
			assert.Equal(t, 0, s.Data().Turns)
		})
	}
}

func TestFileBackendValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	content := `{
  "turns": 7,
  "corrections": 2,
  "vocabulary": {"café": 3, "visita": 1}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := NewFileBackend(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Data{
		Turns:       7,
		Corrections: 2,
		Vocabulary:  map[string]int{"café": 3, "visita": 1},
	}, d)
}
