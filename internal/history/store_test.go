package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"splice/internal/concat"
	"splice/internal/history"
	"splice/internal/services"
	"splice/internal/stage"
	"splice/internal/testsupport"
)

func sampleRun(id string, started time.Time) history.Run {
	return history.Run{
		ID:          id,
		Status:      history.StatusDone,
		Output:      "/out/joined.mp4",
		Clips:       []string{"/in/a.mp4", "/in/b.mp4"},
		Transition:  "fade",
		FrameFormat: "raw",
		Concurrency: 4,
		Width:       1280,
		Height:      720,
		FPS:         30,
		Frames:      900,
		Stages: []concat.StageTiming{
			{Stage: stage.NameInitFrames, Duration: 2 * time.Second},
			{Stage: stage.NameRenderFrames, Duration: 3 * time.Second},
			{Stage: stage.NameTranscodeVideo, Duration: 5 * time.Second},
		},
		StartedAt:  started,
		FinishedAt: started.Add(10 * time.Second),
		Duration:   10 * time.Second,
	}
}

func TestRecordAndGetRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := sampleRun("run-1", started)
	if err := store.Record(ctx, want); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected run to be found")
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Fatalf("run mismatch (-want +got):\n%s", diff)
	}
	if store.Path() != cfg.HistoryPath() {
		t.Fatalf("expected store at %s, got %s", cfg.HistoryPath(), store.Path())
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	got, err := store.Get(context.Background(), "nope")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %#v, %v", got, err)
	}
}

func TestRecordRequiresID(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	err := store.Record(context.Background(), history.Run{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Sub-second offsets exercise lexical ordering of stored timestamps.
	offsets := []time.Duration{0, 500 * time.Millisecond, time.Second, 90 * time.Minute}
	ids := []string{"a", "b", "c", "d"}
	for i, id := range ids {
		if err := store.Record(ctx, sampleRun(id, base.Add(offsets[i]))); err != nil {
			t.Fatalf("Record %s failed: %v", id, err)
		}
	}

	runs, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var got []string
	for _, run := range runs {
		got = append(got, run.ID)
	}
	if diff := cmp.Diff([]string{"d", "c", "b"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFindByPrefix(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	now := time.Now()
	for _, id := range []string{"abc123", "abd456", "x_1"} {
		if err := store.Record(ctx, sampleRun(id, now)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	run, err := store.FindByPrefix(ctx, "abc")
	if err != nil || run == nil || run.ID != "abc123" {
		t.Fatalf("expected abc123, got %#v, %v", run, err)
	}
	if _, err := store.FindByPrefix(ctx, "ab"); err == nil {
		t.Fatal("expected ambiguous prefix error")
	}
	run, err = store.FindByPrefix(ctx, "x_")
	if err != nil || run == nil || run.ID != "x_1" {
		t.Fatalf("expected literal underscore match, got %#v, %v", run, err)
	}
	run, err = store.FindByPrefix(ctx, "zzz")
	if err != nil || run != nil {
		t.Fatalf("expected no match, got %#v, %v", run, err)
	}
}

func TestStatsAndPrune(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	old := time.Now().Add(-72 * time.Hour)
	recent := time.Now()

	failed := sampleRun("failed", recent)
	failed.Status = history.StatusErrored
	failed.ErrorMessage = "boom"
	for _, run := range []history.Run{sampleRun("old", old), sampleRun("new", recent), failed} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if diff := cmp.Diff(map[history.Status]int{history.StatusDone: 2, history.StatusErrored: 1}, stats); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}

	removed, err := store.Prune(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned run, got %d", removed)
	}
	if run, _ := store.Get(ctx, "old"); run != nil {
		t.Fatal("expected old run to be pruned")
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	if err := store.Record(context.Background(), sampleRun("keep", time.Now())); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	_ = store.Close()

	store, err = history.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()
	if run, err := store.Get(context.Background(), "keep"); err != nil || run == nil {
		t.Fatalf("expected run after reopen, got %#v, %v", run, err)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	_ = db.Close()

	if _, err := history.OpenPath(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
