// Package storage provides S3-compatible object storage for lead documents.
// KYC paperwork and agreements are stored here; only metadata lives in the
// database.
package storage

import (
	"context"
	"io"
	"time"
)

// PresignedURL contains the URL and metadata for a presigned download.
type PresignedURL struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DocumentStore is the object storage interface the leads module depends on.
type DocumentStore interface {
	// Upload stores a file and returns the object key it was stored under.
	Upload(ctx context.Context, leadID, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// DownloadURL creates a presigned URL for fetching a stored document.
	DownloadURL(ctx context.Context, objectKey string) (*PresignedURL, error)

	// Delete removes a stored document.
	Delete(ctx context.Context, objectKey string) error

	// EnsureBucket creates the documents bucket if it does not exist.
	EnsureBucket(ctx context.Context) error

	// ValidateUpload checks content type and size before accepting a file.
	ValidateUpload(contentType string, sizeBytes int64) error
}
