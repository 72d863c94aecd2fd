package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, time.August, 30, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := store.Record(ctx, Run{
			RunID:          "run-" + string(rune('a'+i)),
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
			Script:         "script",
			AudioFile:      "/data/broadcast.mp3",
			EventCount:     i + 1,
			ElapsedSeconds: 42.5,
		})
		if err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("List returned %d runs, want 3", len(runs))
	}
	if runs[0].RunID != "run-c" || runs[2].RunID != "run-a" {
		t.Fatalf("runs not newest first: %v, %v", runs[0].RunID, runs[2].RunID)
	}
	if !runs[0].CreatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("created_at did not round trip: %v", runs[0].CreatedAt)
	}

	limited, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List limited returned error: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("List limited returned %d runs, want 2", len(limited))
	}
}

func TestLatest(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if latest != nil {
		t.Fatalf("Latest on empty store = %+v, want nil", latest)
	}

	if _, err := store.Record(ctx, Run{RunID: "run-1", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	latest, err = store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if latest == nil || latest.RunID != "run-1" {
		t.Fatalf("Latest = %+v, want run-1", latest)
	}
}

func TestSucceeded(t *testing.T) {
	if !(Run{}).Succeeded() {
		t.Fatal("run without error should report success")
	}
	if (Run{ErrorMessage: "mix: boom"}).Succeeded() {
		t.Fatal("run with error should not report success")
	}
}
