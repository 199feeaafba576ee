package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/storage"
)

// ImageUpload is one file from a project submission. Uploads with Size 0 are
// treated as empty file inputs and skipped.
type ImageUpload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// countNonEmpty is the number of uploads saveImages will actually store
func countNonEmpty(uploads []ImageUpload) int {
	n := 0
	for _, up := range uploads {
		if up.Size > 0 {
			n++
		}
	}
	return n
}

func checkUploads(uploads []ImageUpload) error {
	for _, up := range uploads {
		if up.Size <= 0 {
			continue
		}
		if _, ok := storage.Extension(up.Filename); !ok {
			return errs.NewValidationError("images", fmt.Sprintf("%s is not a supported image type", up.Filename))
		}
	}
	return nil
}

// saveImages writes each non-empty upload as {slug}-{millis}{ext}. Names within
// one batch get consecutive millisecond stamps so they never collide. When a
// write fails the files already written are removed again.
func (c *Catalog) saveImages(ctx context.Context, slug string, uploads []ImageUpload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	base := c.now().UnixMilli()
	written := make([]string, 0, len(uploads))
	n := int64(0)
	for _, up := range uploads {
		if up.Size <= 0 {
			continue
		}
		ext, _ := storage.Extension(up.Filename)
		name := fmt.Sprintf("%s-%d%s", slug, base+n, ext)
		n++

		path, err := c.saveImage(ctx, name, up)
		if err != nil {
			c.logger.Error().Err(err).Str("file", up.Filename).Msg("image upload failed")
			c.removeImages(ctx, written)
			return nil, errs.NewStorageError("store uploaded image", err)
		}
		written = append(written, path)
	}
	return written, nil
}

func (c *Catalog) saveImage(ctx context.Context, name string, up ImageUpload) (string, error) {
	if up.Open == nil {
		return "", fmt.Errorf("upload %s has no content", up.Filename)
	}
	rc, err := up.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return c.images.Save(ctx, name, rc)
}

// removeImages deletes stored images, logging rather than returning failures
func (c *Catalog) removeImages(ctx context.Context, paths []string) {
	for _, p := range paths {
		if !c.images.Owns(p) {
			continue
		}
		if err := c.images.Remove(ctx, p); err != nil {
			c.logger.Warn().Err(err).Str("path", p).Msg("failed to remove image")
		}
	}
}
