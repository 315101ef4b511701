package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry bounds how long generated upload and
// download links stay valid.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the object storage operations the media service
// needs. Clients upload and download directly against presigned URLs;
// the API server never proxies file bytes.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL accepting a
	// PUT of the object. The uploader must send the same Content-Type
	// the URL was signed with.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL serving a
	// GET of the object.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the bucket.
	DeleteObject(ctx context.Context, objectKey string) error
}
