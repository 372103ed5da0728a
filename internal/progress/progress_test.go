package progress

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBackend is an in-memory Backend that counts saves.
type memBackend struct {
	mu      sync.Mutex
	data    *Data
	loadErr error
	saveErr error
	saves   int
}

func (m *memBackend) Load(context.Context) (Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return Data{}, m.loadErr
	}
	if m.data == nil {
		return Data{}, ErrNotFound
	}
	return *m.data, nil
}

func (m *memBackend) Save(_ context.Context, d Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := Data{Turns: d.Turns, Corrections: d.Corrections, Vocabulary: map[string]int{}}
	for k, v := range d.Vocabulary {
		cp.Vocabulary[k] = v
	}
	m.data = &cp
	return nil
}

func TestOpenOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		s := Open(ctx, &memBackend{}, nil)
		assert.Equal(t, Missing, s.Outcome().Status)
		assert.NoError(t, s.Outcome().Err)
		assert.Equal(t, 0, s.Data().Turns)
	})

	t.Run("corrupt", func(t *testing.T) {
		s := Open(ctx, &memBackend{loadErr: errors.New("bad bytes")}, nil)
		assert.Equal(t, Corrupt, s.Outcome().Status)
		assert.Error(t, s.Outcome().Err)
		assert.Empty(t, s.Data().Vocabulary)
	})

	t.Run("loaded", func(t *testing.T) {
		b := &memBackend{data: &Data{Turns: 4, Corrections: 1}}
		s := Open(ctx, b, nil)
		assert.Equal(t, Loaded, s.Outcome().Status)
		assert.Equal(t, 4, s.Data().Turns)
		assert.NotNil(t, s.Data().Vocabulary, "nil vocabulary must be normalized")
	})
}

func TestMutationsPersist(t *testing.T) {
	ctx := context.Background()
	b := &memBackend{}
	s := Open(ctx, b, nil)

	s.IncrementTurn(ctx)
	s.AddCorrections(ctx, 2)
	s.AddVocabulary(ctx, []string{"hola", "gracias"})

	assert.Equal(t, 3, b.saves)
	require.NotNil(t, b.data)
	assert.Equal(t, 1, b.data.Turns)
	assert.Equal(t, 2, b.data.Corrections)
	assert.Equal(t, map[string]int{"hola": 1, "gracias": 1}, b.data.Vocabulary)
}

func TestAddCorrectionsIgnoresNonPositive(t *testing.T) {
	ctx := context.Background()
	b := &memBackend{}
	s := Open(ctx, b, nil)

	s.AddCorrections(ctx, 0)
	s.AddCorrections(ctx, -3)

	assert.Equal(t, 0, s.Data().Corrections)
	assert.Equal(t, 0, b.saves)
}

func TestAddVocabularyCollapsesDuplicates(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, &memBackend{}, nil)

	s.AddVocabulary(ctx, []string{"casa", "casa", "", "perro"})
	s.AddVocabulary(ctx, []string{"casa"})

	assert.Equal(t, map[string]int{"casa": 2, "perro": 1}, s.Data().Vocabulary)
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	b := &memBackend{saveErr: errors.New("disk full")}
	s := Open(ctx, b, nil)

	s.IncrementTurn(ctx)
	s.AddCorrections(ctx, 1)

	assert.Equal(t, 1, s.Data().Turns)
	assert.Equal(t, 1, s.Data().Corrections)
	assert.Equal(t, 2, b.saves)
}

func TestMonotonicity(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, &memBackend{}, nil)

	ops := []func(){
		func() { s.IncrementTurn(ctx) },
		func() { s.AddCorrections(ctx, 3) },
		func() { s.AddVocabulary(ctx, []string{"uno", "dos"}) },
		func() { s.AddCorrections(ctx, 0) },
		func() { s.AddVocabulary(ctx, []string{"dos", "tres"}) },
		func() { s.IncrementTurn(ctx) },
		func() { s.AddVocabulary(ctx, nil) },
		func() { s.AddCorrections(ctx, 1) },
	}

	prev := s.Data()
	for i, op := range ops {
		op()
		cur := s.Data()
		assert.GreaterOrEqual(t, cur.Turns, prev.Turns, "op %d turns", i)
		assert.GreaterOrEqual(t, cur.Corrections, prev.Corrections, "op %d corrections", i)
		for w, c := range prev.Vocabulary {
			assert.GreaterOrEqual(t, cur.Vocabulary[w], c, "op %d word %q", i, w)
		}
		prev = cur
	}
	assert.Equal(t, 2, prev.Turns)
	assert.Equal(t, 4, prev.Corrections)
	assert.Equal(t, 2, prev.Vocabulary["dos"])
}

func TestTopVocabulary(t *testing.T) {
	ctx := context.Background()
	b := &memBackend{data: &Data{Vocabulary: map[string]int{
		"casa": 3, "perro": 5, "gato": 3, "agua": 1, "sol": 4,
	}}}
	s := Open(ctx, b, nil)

	got := s.TopVocabulary(3)
	assert.Equal(t, []WordCount{
		{Word: "perro", Count: 5},
		{Word: "sol", Count: 4},
		{Word: "casa", Count: 3},
	}, got)

	all := s.TopVocabulary(100)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Count, all[i].Count)
	}

	assert.Empty(t, s.TopVocabulary(0))
}

func TestDataReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, &memBackend{}, nil)
	s.AddVocabulary(ctx, []string{"hola"})

	d := s.Data()
	d.Vocabulary["hola"] = 99

	assert.Equal(t, 1, s.Data().Vocabulary["hola"])
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	b := &memBackend{}
	s := Open(ctx, b, nil)
	s.IncrementTurn(ctx)
	s.AddVocabulary(ctx, []string{"hola"})

	s.Reset(ctx)

	assert.Equal(t, 0, s.Data().Turns)
	assert.Empty(t, s.Data().Vocabulary)
	require.NotNil(t, b.data)
	assert.Equal(t, 0, b.data.Turns)
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, &memBackend{}, nil)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.IncrementTurn(ctx)
			s.AddVocabulary(ctx, []string{fmt.Sprintf("word%d", i%4)})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, s.Data().Turns)
	total := 0
	for _, c := range s.Data().Vocabulary {
		total += c
	}
	assert.Equal(t, 20, total)
}

func TestRoundTripAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.json")

	first := Open(ctx, NewFileBackend(path), nil)
	first.IncrementTurn(ctx)
	first.IncrementTurn(ctx)
	first.AddCorrections(ctx, 3)
	first.AddVocabulary(ctx, []string{"café", "visita"})
	first.AddVocabulary(ctx, []string{"café"})
	want := first.Data()

	second := Open(ctx, NewFileBackend(path), nil)
	assert.Equal(t, Loaded, second.Outcome().Status)
	assert.Equal(t, want, second.Data())
}
