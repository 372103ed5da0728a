package progress

import (
	"context"

	"github.com/abhisek/parla/internal/store"
)

// SQLiteBackend stores progress in the application database.
type SQLiteBackend struct {
	repo store.ProgressRepo
}

// NewSQLiteBackend returns a backend over repo.
func NewSQLiteBackend(repo store.ProgressRepo) *SQLiteBackend {
	return &SQLiteBackend{repo: repo}
}

func (b *SQLiteBackend) Load(ctx context.Context) (Data, error) {
	rec, found, err := b.repo.LoadProgress(ctx)
	if err != nil {
		return Data{}, err
	}
	if !found {
		return Data{}, ErrNotFound
	}
	return normalize(Data{
		Turns:       rec.Turns,
		Corrections: rec.Corrections,
		Vocabulary:  rec.Vocabulary,
	}), nil
}

func (b *SQLiteBackend) Save(ctx context.Context, d Data) error {
	return b.repo.SaveProgress(ctx, store.ProgressRecord{
		Turns:       d.Turns,
		Corrections: d.Corrections,
		Vocabulary:  d.Vocabulary,
	})
}
