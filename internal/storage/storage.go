package storage

import (
	"context"
	"fmt"
	"io"
)

// ImageStorage persists uploaded image bytes and returns the public URL
// the stored file is served from.
type ImageStorage interface {
	Save(ctx context.Context, originalFilename, contentType string, r io.Reader) (string, error)
}

// AllowedImageTypes is the content-type whitelist for uploads.
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

// ValidateContentType checks an upload's content type against a whitelist.
func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}

// ValidateFileSize checks an upload's size against the configured cap.
func ValidateFileSize(size, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", maxSize)
	}
	return nil
}
