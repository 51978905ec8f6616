package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"

	"github.com/nimbusfeed/backend/internal/apperrors"
)

// GCSStore implements Store on a Cloud Storage bucket, the bucket Firebase
// Storage fronts.
type GCSStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewGCSStore creates a new GCSStore for the given bucket
func NewGCSStore(bucket *storage.BucketHandle, bucketName string) *GCSStore {
	return &GCSStore{bucket: bucket, bucketName: bucketName}
}

// Upload writes the object under path and returns its download URL
func (s *GCSStore) Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", apperrors.Wrap(apperrors.KindRemote, "image upload failed", err)
	}
	if err := w.Close(); err != nil {
		return "", apperrors.Wrap(apperrors.KindRemote, "image upload failed", err)
	}
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		s.bucketName, url.QueryEscape(path)), nil
}

// Delete removes the object under path
func (s *GCSStore) Delete(ctx context.Context, path string) error {
	if err := s.bucket.Object(path).Delete(ctx); err != nil {
		return apperrors.Wrap(apperrors.KindRemote, "image delete failed", err)
	}
	return nil
}
