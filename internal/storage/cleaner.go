package storage

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Cleaner removes generated assets (portraits, signatures, rendered PDFs)
// when a card record is rejected or deleted. Deletion is best effort: a
// failure is logged and never blocks the request that triggered it.
type Cleaner struct {
	uploadDir    string
	publicPrefix string
}

func NewCleaner(uploadDir, publicPrefix string) *Cleaner {
	return &Cleaner{uploadDir: uploadDir, publicPrefix: publicPrefix}
}

// Remove deletes the files behind the given public paths. Paths outside the
// public prefix are ignored; they were not produced by the pipeline.
func (c *Cleaner) Remove(publicPaths ...string) {
	for _, p := range publicPaths {
		if p == "" || !strings.HasPrefix(p, c.publicPrefix+"/") {
			continue
		}
		rel := strings.TrimPrefix(p, c.publicPrefix+"/")
		local := filepath.Join(c.uploadDir, filepath.FromSlash(rel))
		if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
			log.Printf("cleaner: failed to remove %s: %v", local, err)
		}
	}
}
