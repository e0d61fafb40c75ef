package idcard

import (
	"context"
	"errors"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"idcard-backend/internal/model"
)

func newTestGenerator(t *testing.T) (*Generator, string) {
	t.Helper()
	dir := t.TempDir()
	uploadDir := filepath.Join(dir, "uploads")
	g := NewGenerator(uploadDir, filepath.Join(uploadDir, "generated"), "/uploads", 30*time.Second)
	return g, uploadDir
}

func janeDoe() Submission {
	return Submission{
		FirstName:              "Jane",
		LastName:               "Doe",
		IDNumber:               "1234",
		Position:               "Employee",
		Category:               model.CategoryEmployee,
		EmergencyContactName:   "John Doe",
		EmergencyContactNumber: "555-0102",
		SignatoryName:          "Ada Admin",
		SignatoryPosition:      "HR Director",
		CompanyAddress:         "1 Example Street, Example City",
		BarcodeValue:           "1234",
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	g, uploadDir := newTestGenerator(t)

	photo := fileHeader(t, "photo", "portrait.png", pngBytes(t, 200, 200, color.NRGBA{R: 120, A: 255}))
	signature := fileHeader(t, "signatorySignature", "signature.png", pngBytes(t, 60, 20, color.NRGBA{A: 255}))

	res, err := g.Generate(context.Background(), janeDoe(), photo, signature)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if res.CorrelationID == uuid.Nil {
		t.Fatal("missing correlation id")
	}

	filePattern := regexp.MustCompile(`^/uploads/generated/\d+-1234\.pdf$`)
	if !filePattern.MatchString(res.FilePath) {
		t.Fatalf("file path = %q, want match of %s", res.FilePath, filePattern)
	}

	local := filepath.Join(uploadDir, "generated", filepath.Base(res.FilePath))
	info, err := os.Stat(local)
	if err != nil {
		t.Fatalf("stat generated pdf: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("generated pdf is empty")
	}

	// The artifact must be a structurally valid PDF.
	if err := api.ValidateFile(local, nil); err != nil {
		t.Fatalf("generated pdf failed validation: %v", err)
	}

	// No leftover temp files.
	entries, err := os.ReadDir(filepath.Join(uploadDir, "generated"))
	if err != nil {
		t.Fatalf("read generated dir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestGenerateMissingAttachment(t *testing.T) {
	testCases := []struct {
		name      string
		photo     bool
		signature bool
	}{
		{name: "missing photo", photo: false, signature: true},
		{name: "missing signature", photo: true, signature: false},
		{name: "missing both", photo: false, signature: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, uploadDir := newTestGenerator(t)

			var photoFH, signatureFH *multipart.FileHeader
			if tc.photo {
				photoFH = fileHeader(t, "photo", "portrait.png", pngBytes(t, 10, 10, color.NRGBA{A: 255}))
			}
			if tc.signature {
				signatureFH = fileHeader(t, "signatorySignature", "signature.png", pngBytes(t, 10, 10, color.NRGBA{A: 255}))
			}

			_, err := g.Generate(context.Background(), janeDoe(), photoFH, signatureFH)
			if !errors.Is(err, ErrMissingAttachment) {
				t.Fatalf("Generate error = %v, want ErrMissingAttachment", err)
			}

			// No partial disk writes.
			if _, statErr := os.Stat(uploadDir); !os.IsNotExist(statErr) {
				t.Fatal("upload dir created despite missing attachment")
			}
		})
	}
}

func TestGenerateInvalidBarcodeCleansUp(t *testing.T) {
	g, uploadDir := newTestGenerator(t)

	sub := janeDoe()
	sub.BarcodeValue = "社員番号"

	photo := fileHeader(t, "photo", "portrait.png", pngBytes(t, 200, 200, color.NRGBA{A: 255}))
	signature := fileHeader(t, "signatorySignature", "signature.png", pngBytes(t, 60, 20, color.NRGBA{A: 255}))

	_, err := g.Generate(context.Background(), sub, photo, signature)
	if !errors.Is(err, ErrEncodingFailed) {
		t.Fatalf("Generate error = %v, want ErrEncodingFailed", err)
	}

	// Stored attachments are removed on failure.
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			t.Fatalf("leftover upload %s after failed generation", e.Name())
		}
	}
}

func TestGenerateContextCancellation(t *testing.T) {
	t.Run("canceled before start", func(t *testing.T) {
		g, uploadDir := newTestGenerator(t)

		photo := fileHeader(t, "photo", "portrait.png", pngBytes(t, 10, 10, color.NRGBA{A: 255}))
		signature := fileHeader(t, "signatorySignature", "signature.png", pngBytes(t, 10, 10, color.NRGBA{A: 255}))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := g.Generate(ctx, janeDoe(), photo, signature)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Generate error = %v, want context.Canceled", err)
		}

		// Nothing is written for an already-aborted request.
		if _, statErr := os.Stat(uploadDir); !os.IsNotExist(statErr) {
			t.Fatal("upload dir created despite canceled context")
		}
	})

	t.Run("expired timeout", func(t *testing.T) {
		dir := t.TempDir()
		uploadDir := filepath.Join(dir, "uploads")
		g := NewGenerator(uploadDir, filepath.Join(uploadDir, "generated"), "/uploads", -time.Second)

		photo := fileHeader(t, "photo", "portrait.png", pngBytes(t, 10, 10, color.NRGBA{A: 255}))
		signature := fileHeader(t, "signatorySignature", "signature.png", pngBytes(t, 10, 10, color.NRGBA{A: 255}))

		_, err := g.Generate(context.Background(), janeDoe(), photo, signature)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Generate error = %v, want context.DeadlineExceeded", err)
		}

		if _, statErr := os.Stat(uploadDir); !os.IsNotExist(statErr) {
			t.Fatal("upload dir created despite expired deadline")
		}
	})
}

func TestGenerateEmployeePhotoIsPadded(t *testing.T) {
	g, uploadDir := newTestGenerator(t)

	photo := fileHeader(t, "photo", "portrait.png", pngBytes(t, 200, 200, color.NRGBA{R: 9, A: 255}))
	signature := fileHeader(t, "signatorySignature", "signature.png", pngBytes(t, 60, 20, color.NRGBA{A: 255}))

	res, err := g.Generate(context.Background(), janeDoe(), photo, signature)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	local := filepath.Join(uploadDir, filepath.Base(res.PhotoPath))
	f, err := os.Open(local)
	if err != nil {
		t.Fatalf("open normalized portrait: %v", err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode normalized portrait: %v", err)
	}
	if cfg.Width != 200+PaddingWidthPx {
		t.Fatalf("normalized width = %d, want %d", cfg.Width, 200+PaddingWidthPx)
	}
}
