package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// progressRepo implements ProgressRepo on the progress_counters and
// progress_vocabulary tables. The counters table holds at most one row.
type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) LoadProgress(ctx context.Context) (ProgressRecord, bool, error) {
	rec := ProgressRecord{Vocabulary: map[string]int{}}

	err := r.db.QueryRowContext(ctx,
		`SELECT turns, corrections FROM progress_counters WHERE id = 1`,
	).Scan(&rec.Turns, &rec.Corrections)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("load progress counters: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT word, count FROM progress_vocabulary`)
	if err != nil {
		return rec, false, fmt.Errorf("load vocabulary: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var word string
		var count int
		if err := rows.Scan(&word, &count); err != nil {
			return rec, false, fmt.Errorf("scan vocabulary: %w", err)
		}
		rec.Vocabulary[word] = count
	}
	if err := rows.Err(); err != nil {
		return rec, false, fmt.Errorf("load vocabulary: %w", err)
	}
	return rec, true, nil
}

func (r *progressRepo) SaveProgress(ctx context.Context, rec ProgressRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO progress_counters (id, turns, corrections, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET turns = excluded.turns,
			corrections = excluded.corrections, updated_at = excluded.updated_at`,
		rec.Turns, rec.Corrections, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save progress counters: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM progress_vocabulary`); err != nil {
		return fmt.Errorf("clear vocabulary: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO progress_vocabulary (word, count) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare vocabulary insert: %w", err)
	}
	defer stmt.Close()
	for word, count := range rec.Vocabulary {
		if count <= 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, word, count); err != nil {
			return fmt.Errorf("save vocabulary %q: %w", word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit progress: %w", err)
	}
	return nil
}
