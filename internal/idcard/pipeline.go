package idcard

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of one generation request. All paths are public
// (under the /uploads prefix); CorrelationID also tags the persisted card
// record so artifact and record can be reconciled.
type Result struct {
	CorrelationID uuid.UUID
	PhotoPath     string
	SignaturePath string
	FilePath      string
}

// Generator runs the full card pipeline: store attachments, normalize the
// portrait, encode the barcode and render the PDF. Requests are independent;
// the only shared state is the file system, and every artifact lives at a
// distinct timestamped path.
type Generator struct {
	uploads      *Uploader
	photos       *Normalizer
	renderer     *Renderer
	uploadDir    string
	publicPrefix string
	timeout      time.Duration
}

func NewGenerator(uploadDir, generatedDir, publicPrefix string, timeout time.Duration) *Generator {
	return &Generator{
		uploads:      NewUploader(uploadDir),
		photos:       NewNormalizer(publicPrefix),
		renderer:     NewRenderer(generatedDir),
		uploadDir:    uploadDir,
		publicPrefix: publicPrefix,
		timeout:      timeout,
	}
}

// Generate processes one submission end to end. Any stage failure aborts the
// request and removes files written so far, so no partial card is ever
// visible. Both attachments are checked for presence before the first write.
func (g *Generator) Generate(ctx context.Context, sub Submission, photo, signature *multipart.FileHeader) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if photo == nil {
		return nil, fmt.Errorf("%w: photo", ErrMissingAttachment)
	}
	if signature == nil {
		return nil, fmt.Errorf("%w: signatorySignature", ErrMissingAttachment)
	}

	corrID := uuid.New()
	var written []string
	cleanup := func() {
		for _, p := range written {
			if err := os.Remove(p); err != nil {
				log.Printf("correlation %s: failed to remove partial artifact %s: %v", corrID, p, err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation aborted: %w", err)
	}

	photoPath, err := g.uploads.Save("photo", photo)
	if err != nil {
		return nil, err
	}
	written = append(written, photoPath)

	signaturePath, err := g.uploads.Save("signatorySignature", signature)
	if err != nil {
		cleanup()
		return nil, err
	}
	written = append(written, signaturePath)

	if err := ctx.Err(); err != nil {
		cleanup()
		return nil, fmt.Errorf("generation aborted: %w", err)
	}

	photoPublic, err := g.photos.Normalize(photoPath, sub.Category)
	if err != nil {
		cleanup()
		return nil, err
	}
	// The normalizer may have replaced the portrait file.
	written[0] = g.localPath(photoPublic)

	barcodePNG, err := EncodeBarcode(sub.BarcodeValue)
	if err != nil {
		cleanup()
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		cleanup()
		return nil, fmt.Errorf("generation aborted: %w", err)
	}

	pdfPath, err := g.renderer.Render(sub, g.localPath(photoPublic), signaturePath, barcodePNG)
	if err != nil {
		cleanup()
		return nil, err
	}

	return &Result{
		CorrelationID: corrID,
		PhotoPath:     photoPublic,
		SignaturePath: g.publicPrefix + "/" + filepath.Base(signaturePath),
		FilePath:      g.publicPrefix + "/generated/" + filepath.Base(pdfPath),
	}, nil
}

// localPath maps a public asset path back to its location under the upload
// directory.
func (g *Generator) localPath(publicPath string) string {
	return filepath.Join(g.uploadDir, filepath.Base(publicPath))
}
