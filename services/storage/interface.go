package storage

import (
	"context"
	"io"
)

// ImageStore holds campaign images.
type ImageStore interface {
	// UploadImage stores file under folder/publicID, replacing any previous
	// upload with the same id, and returns its public HTTPS URL.
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (string, error)
	DeleteImage(ctx context.Context, publicID string) error
}
