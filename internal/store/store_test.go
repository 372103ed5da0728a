package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if err := s.DB().Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"llm_request_events", "progress_counters", "progress_vocabulary"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("%s table not found: %v", table, err)
		}
	}
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s1.EventRepo().AppendLLMRequest(context.Background(), LLMRequestEventData{
		Provider: "mock", Model: "m", Purpose: "p", Success: true,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	events, err := s2.EventRepo().QueryLLMEvents(context.Background(), QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("events after reopen = %d, want 1", len(events))
	}
}

func TestLLMEventAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"tutor-reply", "tutor-reply", "other"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock-model",
			Purpose:      purpose,
			InputTokens:  10 * (i + 1),
			OutputTokens: 5,
			LatencyMs:    int64(100 * (i + 1)),
			Streamed:     i == 1,
			Success:      true,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	// Newest first.
	if events[0].Purpose != "other" {
		t.Errorf("events[0].Purpose = %q, want %q", events[0].Purpose, "other")
	}
	if !events[1].Streamed {
		t.Error("events[1] should be streamed")
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited events = %d, want 2", len(limited))
	}

	future, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("query from: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("future events = %d, want 0", len(future))
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		Purpose:      "tutor-reply",
		Success:      false,
		ErrorMessage: "rate limited",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil || len(events) != 1 {
		t.Fatalf("query: %v (n=%d)", err, len(events))
	}

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected event, got nil")
	}
	if got.ErrorMessage != "rate limited" || got.Success {
		t.Errorf("unexpected event: %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, events[0].ID+100)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	add := func(model, purpose string, in, out int, latency int64) {
		t.Helper()
		if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "mock", Model: model, Purpose: purpose,
			InputTokens: in, OutputTokens: out, LatencyMs: latency, Success: true,
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	add("a", "tutor-reply", 100, 10, 200)
	add("a", "tutor-reply", 50, 20, 400)
	add("b", "other", 1, 1, 10)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	top := byPurpose[0]
	if top.Purpose != "tutor-reply" || top.Calls != 2 || top.InputTokens != 150 ||
		top.OutputTokens != 30 || top.AvgLatencyMs != 300 {
		t.Errorf("unexpected purpose usage: %+v", top)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "a" || byModel[0].Calls != 2 {
		t.Errorf("unexpected model usage: %+v", byModel)
	}
}

func TestProgressRepoEmpty(t *testing.T) {
	s := openTestStore(t)

	rec, found, err := s.ProgressRepo().LoadProgress(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Error("expected found=false on a fresh database")
	}
	if rec.Turns != 0 || rec.Corrections != 0 || len(rec.Vocabulary) != 0 {
		t.Errorf("expected zero record, got %+v", rec)
	}
}

func TestProgressRepoSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	first := ProgressRecord{
		Turns:       3,
		Corrections: 2,
		Vocabulary:  map[string]int{"hola": 2, "café": 1, "gracias": 3},
	}
	if err := repo.SaveProgress(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Overwrite wholesale: words absent from the new record disappear.
	second := ProgressRecord{
		Turns:       4,
		Corrections: 2,
		Vocabulary:  map[string]int{"hola": 3, "zero": 0},
	}
	if err := repo.SaveProgress(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := repo.LoadProgress(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected found=true after save")
	}
	if got.Turns != 4 || got.Corrections != 2 {
		t.Errorf("counters = %d/%d, want 4/2", got.Turns, got.Corrections)
	}
	if len(got.Vocabulary) != 1 || got.Vocabulary["hola"] != 3 {
		t.Errorf("vocabulary = %v, want map[hola:3]", got.Vocabulary)
	}
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "parla.db")
	t.Setenv("PARLA_DB", p)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != p {
		t.Errorf("path = %q, want %q", got, p)
	}
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PARLA_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	want := filepath.Join(dir, "parla", "parla.db")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
