package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSweepArtifactsKeepsNewest(t *testing.T) {
	dir := t.TempDir()

	names := []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4"}
	base := time.Now().Add(-time.Hour)
	for i, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		ts := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, ts, ts); err != nil {
			t.Fatal(err)
		}
	}

	if err := SweepArtifacts(dir, 2); err != nil {
		t.Fatalf("SweepArtifacts() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("remaining = %d, want 2", len(entries))
	}
	remaining := map[string]bool{}
	for _, e := range entries {
		remaining[e.Name()] = true
	}
	if !remaining["c.mp4"] || !remaining["d.mp4"] {
		t.Errorf("remaining = %v, want the two newest", remaining)
	}
}

func TestSweepArtifactsDisabledAndMissingDir(t *testing.T) {
	if err := SweepArtifacts(t.TempDir(), 0); err != nil {
		t.Errorf("keep=0 should be a no-op, got %v", err)
	}
	if err := SweepArtifacts(filepath.Join(t.TempDir(), "missing"), 5); err != nil {
		t.Errorf("missing dir should be a no-op, got %v", err)
	}
}
