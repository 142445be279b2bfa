package main

import (
	"path/filepath"
	"testing"

	"github.com/vovakirdan/rock-crush/internal/storage"
)

func TestListScores(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	for i := range 12 {
		if _, err := store.SaveResult(storage.GameResult{GameID: "rockcrush", Score: (i + 1) * 10, EndReason: "out_of_moves"}); err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}

	tests := []struct {
		name string
		all  bool
		want int
	}{
		{"top ten", false, 10},
		{"all", true, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := listScores(store, "rockcrush", tt.all)
			if err != nil {
				t.Fatalf("listScores: %v", err)
			}
			if len(scores) != tt.want {
				t.Errorf("got %d scores, want %d", len(scores), tt.want)
			}
			if len(scores) > 0 && scores[0].Score != 120 {
				t.Errorf("first score = %d, want 120", scores[0].Score)
			}
		})
	}
}

func TestEndLabel(t *testing.T) {
	tests := map[string]string{
		"stalemate":    "no moves",
		"out_of_moves": "out of moves",
		"quit":         "quit",
		"":             "-",
	}
	for in, want := range tests {
		if got := endLabel(in); got != want {
			t.Errorf("endLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
