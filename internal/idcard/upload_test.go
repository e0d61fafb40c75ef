package idcard

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUploaderSaveMissingAttachment(t *testing.T) {
	dir := t.TempDir()
	u := NewUploader(filepath.Join(dir, "uploads"))

	_, err := u.Save("photo", nil)
	if !errors.Is(err, ErrMissingAttachment) {
		t.Fatalf("Save(nil) error = %v, want ErrMissingAttachment", err)
	}

	// Nothing may be written for a failed save.
	if _, statErr := os.Stat(filepath.Join(dir, "uploads")); !os.IsNotExist(statErr) {
		t.Fatal("upload dir created despite missing attachment")
	}
}

func TestUploaderSaveRejectsDisallowedExtension(t *testing.T) {
	dir := t.TempDir()
	u := NewUploader(filepath.Join(dir, "uploads"))

	fh := fileHeader(t, "photo", "portrait.exe", []byte("MZ"))
	_, err := u.Save("photo", fh)
	if !errors.Is(err, ErrUnsupportedAttachment) {
		t.Fatalf("Save error = %v, want ErrUnsupportedAttachment", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "uploads")); !os.IsNotExist(statErr) {
		t.Fatal("upload dir created despite rejected attachment")
	}
}

func TestUploaderSaveWritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	uploadDir := filepath.Join(dir, "uploads")
	u := NewUploader(uploadDir)

	content := pngBytes(t, 8, 8, color.NRGBA{A: 255})
	fh := fileHeader(t, "photo", "my portrait.png", content)

	path, err := u.Save("photo", fh)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasSuffix(base, "-my_portrait.png") {
		t.Fatalf("stored name = %q, want timestamp prefix plus sanitized original name", base)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(got) != string(content) {
		t.Fatal("stored content differs from upload")
	}
}
