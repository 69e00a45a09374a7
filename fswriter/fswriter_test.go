package fswriter_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mathijs727/sic/fswriter"
)

func TestWriteIfDifferentCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.h")

	changed, err := fswriter.WriteIfDifferent(path, []byte("hello"))
	if err != nil {
		t.Fatalf("WriteIfDifferent: %v", err)
	}
	if !changed {
		t.Error("expected changed = true for a new file")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestWriteIfDifferentSkipsIdenticalContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.h")

	if _, err := fswriter.WriteIfDifferent(path, []byte("same")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	originalModTime := info.ModTime()

	// Force enough of a time gap that an unwanted rewrite would detectably
	// bump mtime on every filesystem this runs on.
	time.Sleep(10 * time.Millisecond)

	changed, err := fswriter.WriteIfDifferent(path, []byte("same"))
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if changed {
		t.Error("expected changed = false for identical content")
	}

	info2, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info2.ModTime().Equal(originalModTime) {
		t.Error("mtime changed even though content was identical")
	}
}

func TestWriteIfDifferentRewritesChangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.h")

	if _, err := fswriter.WriteIfDifferent(path, []byte("v1")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	changed, err := fswriter.WriteIfDifferent(path, []byte("v2"))
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if !changed {
		t.Error("expected changed = true when content differs")
	}

	got, _ := os.ReadFile(path)
	if string(got) != "v2" {
		t.Errorf("got %q, want %q", got, "v2")
	}
}

func TestTreeReportsWrittenAndSkipped(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.h")
	pathB := filepath.Join(dir, "b.h")

	if _, err := fswriter.WriteIfDifferent(pathA, []byte("unchanged")); err != nil {
		t.Fatalf("seed a.h: %v", err)
	}

	result, err := fswriter.Tree([]fswriter.File{
		{Path: pathA, Contents: "unchanged"},
		{Path: pathB, Contents: "new"},
	})
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}

	if len(result.Written) != 1 || result.Written[0] != pathB {
		t.Errorf("Written = %v, want [%s]", result.Written, pathB)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != pathA {
		t.Errorf("Skipped = %v, want [%s]", result.Skipped, pathA)
	}
}
