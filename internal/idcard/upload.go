package idcard

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// allowedExtensions is the server-side attachment allow-list. Uploads with
// any other extension are rejected before a byte is written.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Uploader stores multipart attachments on durable local storage, prefixing
// each filename with the receive time to avoid collisions.
type Uploader struct {
	dir string
}

func NewUploader(dir string) *Uploader {
	return &Uploader{dir: dir}
}

// Save validates and writes one attachment, returning its on-disk path.
// A nil header fails with ErrMissingAttachment; a disallowed extension fails
// with ErrUnsupportedAttachment. Either way nothing is written.
func (u *Uploader) Save(field string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingAttachment, field)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedAttachment, field, ext)
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s attachment: %w", field, err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFilename(fh.Filename))
	path := filepath.Join(u.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to store %s attachment: %w", field, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to store %s attachment: %w", field, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to store %s attachment: %w", field, err)
	}

	return path, nil
}

// sanitizeFilename strips any path components and whitespace from a
// client-supplied filename.
func sanitizeFilename(name string) string {
	base := filepath.Base(filepath.Clean(name))
	base = strings.ReplaceAll(base, " ", "_")
	if base == "." || base == string(filepath.Separator) {
		base = "upload"
	}
	return base
}
