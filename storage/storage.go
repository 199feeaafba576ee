// Package storage writes uploaded project images somewhere web-servable and
// hands back the path the project record should reference.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ImageStore persists image bytes under a generated file name
type ImageStore interface {
	// Save writes content as name and returns the public path or URL of the stored file
	Save(ctx context.Context, name string, content io.Reader) (string, error)
	// Remove deletes a file previously returned by Save. Paths the store does not own are ignored.
	Remove(ctx context.Context, publicPath string) error
	// Owns reports whether publicPath was produced by this store
	Owns(publicPath string) bool
}

// AllowedExtensions are the image types accepted for upload
var AllowedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".avif": "image/avif",
}

// Extension returns the lowercased extension of filename if it is an allowed image type
func Extension(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	_, ok := AllowedExtensions[ext]
	return ext, ok
}

// checkName rejects anything that is not a plain file name
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}
