package storage

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/mazelab/internal/trace"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "runs"))
	if err := s.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tr := trace.FromActions([]trace.Action{trace.TurnRight, trace.Move})
	meta := RunMetadata{
		Maze:        "classic",
		MazeText:    "###\n#S#\n#G#\n###",
		Actions:     tr.Len(),
		GoalReached: true,
		Elapsed:     0.42,
		Source:      "turn_right(); move();",
	}

	id, err := s.Save(meta, tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a run ID")
	}

	got, err := s.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.ID != id || got.Maze != "classic" || !got.GoalReached || got.Actions != 2 {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if got.MazeText != meta.MazeText {
		t.Errorf("maze text mismatch: %q", got.MazeText)
	}
	if got.Timestamp.IsZero() {
		t.Error("expected Save to fill in the timestamp")
	}

	back, err := s.LoadTrace(id)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if back.Len() != 2 || back.Actions()[0] != trace.TurnRight || back.Actions()[1] != trace.Move {
		t.Errorf("trace mismatch: %v", back.Actions())
	}
}

func TestListEmptyAndMissing(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"))

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestListFindsSavedRuns(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := s.Save(RunMetadata{Maze: "classic"}, trace.New()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Maze != "classic" {
		t.Errorf("unexpected metadata: %+v", runs[0])
	}
}

func TestLoadUnknownRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("nope"); err == nil {
		t.Error("expected error for unknown run")
	}
	if _, err := s.LoadTrace("nope"); err == nil {
		t.Error("expected error for unknown trace")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"classic", "classic"},
		{"my maze!", "my-maze-"},
		{"a/b", "a-b"},
		{"", "run"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
