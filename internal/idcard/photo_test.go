package idcard

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"idcard-backend/internal/model"
)

func TestNormalizeEmployeePadsLeftEdge(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "portrait.png")
	opaque := color.NRGBA{R: 200, G: 30, B: 30, A: 255}
	if err := os.WriteFile(src, pngBytes(t, 200, 200, opaque), 0o644); err != nil {
		t.Fatalf("write portrait: %v", err)
	}

	n := NewNormalizer("/uploads")
	got, err := n.Normalize(src, model.CategoryEmployee)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "/uploads/portrait.png" {
		t.Fatalf("public path = %q, want /uploads/portrait.png", got)
	}

	padded, err := imaging.Open(src)
	if err != nil {
		t.Fatalf("open padded portrait: %v", err)
	}

	bounds := padded.Bounds()
	if bounds.Dx() != 200+PaddingWidthPx {
		t.Fatalf("padded width = %d, want %d", bounds.Dx(), 200+PaddingWidthPx)
	}
	if bounds.Dy() != 200 {
		t.Fatalf("padded height = %d, want 200", bounds.Dy())
	}

	// Added region is fully transparent and on the left.
	for _, x := range []int{0, PaddingWidthPx / 2, PaddingWidthPx - 1} {
		for _, y := range []int{0, 100, 199} {
			_, _, _, a := padded.At(x, y).RGBA()
			if a != 0 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 0", x, y, a)
			}
		}
	}

	// Original content is untouched to the right of the padding.
	for _, x := range []int{PaddingWidthPx, PaddingWidthPx + 100, PaddingWidthPx + 199} {
		_, _, _, a := padded.At(x, 100).RGBA()
		if a == 0 {
			t.Fatalf("pixel (%d,100) unexpectedly transparent", x)
		}
	}
}

func TestNormalizeEmployeeReplacesOriginalFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "portrait.jpg")
	img := imaging.New(120, 150, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	if err := imaging.Save(img, src); err != nil {
		t.Fatalf("write jpeg portrait: %v", err)
	}

	n := NewNormalizer("/uploads")
	got, err := n.Normalize(src, model.CategoryEmployee)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "/uploads/portrait.png" {
		t.Fatalf("public path = %q, want /uploads/portrait.png", got)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("original jpeg still present (stat err = %v)", err)
	}
	padded, err := imaging.Open(filepath.Join(dir, "portrait.png"))
	if err != nil {
		t.Fatalf("open padded portrait: %v", err)
	}
	if padded.Bounds().Dx() != 120+PaddingWidthPx {
		t.Fatalf("padded width = %d, want %d", padded.Bounds().Dx(), 120+PaddingWidthPx)
	}
}

func TestNormalizeNonEmployeePassesThrough(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "portrait.png")
	original := pngBytes(t, 64, 64, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	if err := os.WriteFile(src, original, 0o644); err != nil {
		t.Fatalf("write portrait: %v", err)
	}

	n := NewNormalizer("/uploads")
	got, err := n.Normalize(src, model.CategoryIntern)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "/uploads/portrait.png" {
		t.Fatalf("public path = %q, want /uploads/portrait.png", got)
	}

	after, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("read portrait: %v", err)
	}
	if string(after) != string(original) {
		t.Fatal("non-Employee portrait was modified; want byte-identical pass-through")
	}
}

func TestNormalizeEmployeeRejectsCorruptImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "portrait.png")
	if err := os.WriteFile(src, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	n := NewNormalizer("/uploads")
	_, err := n.Normalize(src, model.CategoryEmployee)
	if !errors.Is(err, ErrPhotoProcessingFailed) {
		t.Fatalf("Normalize error = %v, want ErrPhotoProcessingFailed", err)
	}
}
