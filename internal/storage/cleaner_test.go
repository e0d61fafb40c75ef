package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCleanerRemovesGeneratedAssets(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "generated"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	pdf := filepath.Join(dir, "generated", "100-1234.pdf")
	photo := filepath.Join(dir, "portrait.png")
	for _, p := range []string{pdf, photo} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	c := NewCleaner(dir, "/uploads")
	c.Remove("/uploads/generated/100-1234.pdf", "/uploads/portrait.png")

	for _, p := range []string{pdf, photo} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("%s still present", p)
		}
	}
}

func TestCleanerIgnoresForeignPaths(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := NewCleaner(dir, "/uploads")
	// Empty, unprefixed and missing paths are all non-events.
	c.Remove("", "keep.txt", "/etc/passwd", "/uploads/not-there.png")

	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("file outside public prefix was removed: %v", err)
	}
}
