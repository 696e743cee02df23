package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"trackdig/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Paths.DataDir = dir
	cfg.Paths.LogDir = dir
	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := []byte(`{"tracks":[{"title":"Strobe"}]}`)
	if err := store.Put(ctx, "beatport", "deadmau5 strobe", payload, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "beatport", "deadmau5 strobe")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch: %s", got)
	}
}

func TestGetMissOnUnknownKey(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "beatport", "nothing"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestGetMissOnExpiredEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "discogs", "q", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Get(ctx, "discogs", "q"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss for expired entry, got %v", err)
	}
}

func TestKeysDifferPerSource(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "spotify", "q", []byte("spotify-data"), time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Get(ctx, "beatport", "q"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected different sources to use different keys, got %v", err)
	}
}

func TestZeroTTLDisablesCaching(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.Put(ctx, "spotify", "q", []byte("x"), 0); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Get(ctx, "spotify", "q"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected miss when TTL is zero, got %v", err)
	}
}

func TestPruneRemovesOnlyExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "spotify", "fresh", []byte("x"), time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "spotify", "stale", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	removed, err := store.Prune(ctx)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned entry, got %d", removed)
	}
	if _, err := store.Get(ctx, "spotify", "fresh"); err != nil {
		t.Fatalf("fresh entry should survive prune, got %v", err)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	row := HistoryRow{
		RunID:      "run-1",
		Query:      "deadmau5 - strobe",
		Solved:     true,
		Confidence: 0.83,
		Reason:     "meets requirements",
		Sources:    3,
		Duration:   1500 * time.Millisecond,
	}
	if err := store.RecordRun(ctx, row); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if err := store.RecordRun(ctx, HistoryRow{RunID: "run-2", Query: "other", Reason: "failed"}); err != nil {
		t.Fatalf("record run: %v", err)
	}

	history, err := store.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(history))
	}
	if history[0].RunID != "run-2" {
		t.Fatalf("expected newest first, got %s", history[0].RunID)
	}
	got := history[1]
	if !got.Solved || got.Confidence != 0.83 || got.Sources != 3 || got.Duration != 1500*time.Millisecond {
		t.Fatalf("history row mismatch: %+v", got)
	}
}
