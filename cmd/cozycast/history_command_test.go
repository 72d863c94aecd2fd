package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cozycast/internal/history"
)

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No broadcast runs recorded")
}

func TestHistoryListsRuns(t *testing.T) {
	env := setupCLITestEnv(t)

	store, err := history.Open(filepath.Join(env.dataDir, "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	if _, err := store.Record(context.Background(), history.Run{
		RunID:          "run-1",
		CreatedAt:      time.Date(2026, time.August, 30, 21, 0, 0, 0, time.UTC),
		AudioFile:      "/data/broadcast.mp3",
		EventCount:     5,
		ElapsedSeconds: 88.2,
	}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	if _, err := store.Record(context.Background(), history.Run{
		RunID:        "run-2",
		CreatedAt:    time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC),
		ErrorMessage: "mix broadcast: sox exploded",
	}); err != nil {
		t.Fatalf("record run: %v", err)
	}
	store.Close()

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "/data/broadcast.mp3")
	requireContains(t, out, "failed")
	requireContains(t, out, "ok")
}
