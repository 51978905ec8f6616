// Package blob abstracts the object store holding post images. Post records
// reference blobs by download URL; deletion cleanup derives the object path
// back from that URL.
package blob

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/nimbusfeed/backend/internal/apperrors"
)

// MaxImageBytes is the largest accepted image upload.
const MaxImageBytes = 5 * 1024 * 1024

// allowedImageTypes are the content types accepted for post images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store is the contract of the external object store.
type Store interface {
	// Upload writes the object under path and returns its download URL.
	Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error)
	// Delete removes the object under path.
	Delete(ctx context.Context, path string) error
}

// ValidateImage rejects uploads that exceed the size cap or carry a
// disallowed content type, before any bytes reach the store.
func ValidateImage(contentType string, size int64) error {
	if !allowedImageTypes[contentType] {
		return apperrors.Newf(apperrors.KindValidation,
			"image type %s is not allowed (jpeg, png, gif, webp)", contentType)
	}
	if size > MaxImageBytes {
		return apperrors.Newf(apperrors.KindValidation,
			"image exceeds the %d byte limit", MaxImageBytes)
	}
	return nil
}

// ObjectPathFromURL derives the object path from a download URL of the form
// https://<host>/.../o/<escaped path>?<params>.
func ObjectPathFromURL(rawURL string) (string, error) {
	_, after, found := strings.Cut(rawURL, "/o/")
	if !found {
		return "", apperrors.New(apperrors.KindValidation, "not a recognizable object URL: "+rawURL)
	}
	escaped, _, _ := strings.Cut(after, "?")
	path, err := url.QueryUnescape(escaped)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindValidation, "malformed object URL", err)
	}
	if path == "" {
		return "", apperrors.New(apperrors.KindValidation, "object URL carries no path")
	}
	return path, nil
}
