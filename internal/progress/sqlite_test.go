package progress

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/parla/internal/store"
)

func TestSQLiteBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "parla.db")

	st, err := store.Open(path)
	require.NoError(t, err)

	first := Open(ctx, NewSQLiteBackend(st.ProgressRepo()), nil)
	assert.Equal(t, Missing, first.Outcome().Status)
	first.IncrementTurn(ctx)
	first.AddCorrections(ctx, 2)
	first.AddVocabulary(ctx, []string{"bonjour", "merci"})
	want := first.Data()
	require.NoError(t, st.Close())

	st2, err := store.Open(path)
	require.NoError(t, err)
	defer st2.Close()

	second := Open(ctx, NewSQLiteBackend(st2.ProgressRepo()), nil)
	assert.Equal(t, Loaded, second.Outcome().Status)
	assert.Equal(t, want, second.Data())
}
