package idcard

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"idcard-backend/internal/model"
)

// PaddingWidthPx is the transparent extension added to the left edge of
// Employee portraits. The Employee card template places the photo frame
// asymmetrically and the offset is compensated here rather than in layout.
const PaddingWidthPx = 105

// Normalizer post-processes uploaded portraits and maps them to public
// asset paths.
type Normalizer struct {
	publicPrefix string
}

func NewNormalizer(publicPrefix string) *Normalizer {
	return &Normalizer{publicPrefix: publicPrefix}
}

// Normalize returns the portrait's public path. For the Employee category the
// canvas is extended PaddingWidthPx to the left with full transparency and
// re-encoded as PNG; the original file is removed once the padded version is
// on disk. Every other category passes through untouched.
func (n *Normalizer) Normalize(photoPath, category string) (string, error) {
	if category != model.CategoryEmployee {
		return n.publicPath(photoPath), nil
	}

	src, err := imaging.Open(photoPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPhotoProcessingFailed, err)
	}

	bounds := src.Bounds()
	padded := imaging.New(bounds.Dx()+PaddingWidthPx, bounds.Dy(), color.NRGBA{})
	padded = imaging.Paste(padded, src, image.Pt(PaddingWidthPx, 0))

	outPath := strings.TrimSuffix(photoPath, filepath.Ext(photoPath)) + ".png"
	if err := imaging.Save(padded, outPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPhotoProcessingFailed, err)
	}

	if outPath != photoPath {
		if err := os.Remove(photoPath); err != nil {
			log.Printf("failed to remove original portrait %s: %v", photoPath, err)
		}
	}

	return n.publicPath(outPath), nil
}

func (n *Normalizer) publicPath(path string) string {
	return n.publicPrefix + "/" + filepath.Base(path)
}
