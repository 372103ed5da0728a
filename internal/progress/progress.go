// Package progress tracks aggregate learner statistics across turns and
// persists them after every mutation.
package progress

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"
)

// Data is the aggregate progress record. Counts only ever grow while a
// Store is in use; Reset is the one explicit exception.
type Data struct {
	Turns       int            `json:"turns"`
	Corrections int            `json:"corrections"`
	Vocabulary  map[string]int `json:"vocabulary"`
}

// WordCount is one vocabulary entry.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ErrNotFound is returned by a Backend when nothing has been saved yet.
var ErrNotFound = errors.New("progress: no saved record")

// Backend loads and saves the whole progress record.
type Backend interface {
	// Load returns the saved record, ErrNotFound if none exists, or any
	// other error when the record exists but can't be used.
	Load(ctx context.Context) (Data, error)

	// Save overwrites the stored record.
	Save(ctx context.Context, d Data) error
}

// Status describes how the initial record was obtained.
type Status int

const (
	Loaded Status = iota
	Missing
	Corrupt
)

func (s Status) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Missing:
		return "missing"
	case Corrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// LoadOutcome records why a Store started from saved data or from zeros.
type LoadOutcome struct {
	Status Status
	Err    error
}

const saveTimeout = 5 * time.Second

// Store is the process-wide progress record. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	data    Data
	backend Backend
	outcome LoadOutcome
	logger  *slog.Logger
}

// Open loads the record from backend. It never fails: a missing or unusable
// record yields zeroed Data and the reason is available from Outcome.
func Open(ctx context.Context, backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{backend: backend, logger: logger, data: emptyData()}

	d, err := backend.Load(ctx)
	switch {
	case err == nil:
		s.data = normalize(d)
		s.outcome = LoadOutcome{Status: Loaded}
	case errors.Is(err, ErrNotFound):
		s.outcome = LoadOutcome{Status: Missing}
		logger.Debug("no saved progress, starting fresh")
	default:
		s.outcome = LoadOutcome{Status: Corrupt, Err: err}
		logger.Warn("saved progress unusable, starting fresh", "error", err)
	}
	return s
}

// Outcome reports how the record was loaded.
func (s *Store) Outcome() LoadOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// IncrementTurn adds one completed turn.
func (s *Store) IncrementTurn(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Turns++
	s.persist(ctx)
}

// AddCorrections adds n corrections. Non-positive n is ignored.
func (s *Store) AddCorrections(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Corrections += n
	s.persist(ctx)
}

// AddVocabulary increments the count of each distinct word once.
func (s *Store) AddVocabulary(ctx context.Context, words []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		s.data.Vocabulary[w]++
	}
	s.persist(ctx)
}

// TopVocabulary returns at most n words by count descending. Ties are
// ordered alphabetically.
func (s *Store) TopVocabulary(n int) []WordCount {
	if n <= 0 {
		return nil
	}
	s.mu.Lock()
	out := make([]WordCount, 0, len(s.data.Vocabulary))
	for w, c := range s.data.Vocabulary {
		out = append(out, WordCount{Word: w, Count: c})
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b WordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Word, b.Word)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Data returns a copy of the current record.
func (s *Store) Data() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Data{
		Turns:       s.data.Turns,
		Corrections: s.data.Corrections,
		Vocabulary:  maps.Clone(s.data.Vocabulary),
	}
}

// Reset zeroes the record and persists the empty state.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = emptyData()
	s.persist(ctx)
}

// persist writes the record. Failures are logged and swallowed.
// Caller must hold s.mu.
func (s *Store) persist(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := s.backend.Save(ctx, s.data); err != nil {
		s.logger.Warn("save progress failed", "error", err)
	}
}

func emptyData() Data {
	return Data{Vocabulary: map[string]int{}}
}

func normalize(d Data) Data {
	if d.Vocabulary == nil {
		d.Vocabulary = map[string]int{}
	}
	return d
}
