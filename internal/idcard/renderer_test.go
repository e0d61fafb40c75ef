package idcard

import (
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestRenderWritesValidatedPDF(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "generated")
	r := NewRenderer(outDir)

	photoFile := filepath.Join(dir, "portrait.png")
	if err := os.WriteFile(photoFile, pngBytes(t, 100, 120, color.NRGBA{R: 30, A: 255}), 0o644); err != nil {
		t.Fatalf("write portrait: %v", err)
	}
	signatureFile := filepath.Join(dir, "signature.png")
	if err := os.WriteFile(signatureFile, pngBytes(t, 60, 20, color.NRGBA{A: 255}), 0o644); err != nil {
		t.Fatalf("write signature: %v", err)
	}

	barcodePNG, err := EncodeBarcode("1234")
	if err != nil {
		t.Fatalf("EncodeBarcode: %v", err)
	}

	// Render validates the finished file itself, so a nil error means the
	// artifact passed the structural check.
	path, err := r.Render(janeDoe(), photoFile, signatureFile, barcodePNG)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	namePattern := regexp.MustCompile(`^\d+-1234\.pdf$`)
	if !namePattern.MatchString(filepath.Base(path)) {
		t.Fatalf("artifact name = %q, want match of %s", filepath.Base(path), namePattern)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat artifact: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("artifact is empty")
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file left behind after successful render")
	}
}
