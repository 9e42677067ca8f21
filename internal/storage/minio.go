package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"anchor_crm_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// downloadURLTTL is how long presigned document links stay valid.
const downloadURLTTL = 15 * time.Minute

// allowedContentTypes lists the MIME types accepted for KYC and agreement
// uploads.
var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"image/jpeg":         true,
	"image/png":          true,
	"image/webp":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// MinIOStore implements DocumentStore using MinIO.
type MinIOStore struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
}

// NewMinIOStore creates a MinIO-backed document store.
func NewMinIOStore(cfg config.MinIOConfig) (*MinIOStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOStore{
		client:      client,
		bucket:      cfg.GetMinioBucketLeadDocuments(),
		maxFileSize: cfg.GetMinIOMaxFileSize(),
	}, nil
}

// EnsureBucket creates the documents bucket if it does not exist.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Upload stores a file under {leadID}/{name}_{suffix}{ext} and returns the
// object key. A random suffix prevents overwrites on same-named files.
func (s *MinIOStore) Upload(ctx context.Context, leadID, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	if err := s.ValidateUpload(contentType, size); err != nil {
		return "", err
	}

	ext := path.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	objectKey := fmt.Sprintf("%s/%s_%s%s", leadID, base, uuid.New().String()[:8], ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}
	return objectKey, nil
}

// DownloadURL creates a presigned GET URL for a stored document.
func (s *MinIOStore) DownloadURL(ctx context.Context, objectKey string) (*PresignedURL, error) {
	expiresAt := time.Now().Add(downloadURLTTL)

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, downloadURLTTL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate download URL: %w", err)
	}

	return &PresignedURL{
		URL:       presigned.String(),
		ObjectKey: objectKey,
		ExpiresAt: expiresAt,
	}, nil
}

// Delete removes a stored document.
func (s *MinIOStore) Delete(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectKey, err)
	}
	return nil
}

// ValidateUpload checks content type and size before accepting a file.
func (s *MinIOStore) ValidateUpload(contentType string, sizeBytes int64) error {
	normalized := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	if !allowedContentTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, s.maxFileSize)
	}
	return nil
}
