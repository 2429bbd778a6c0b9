// Package storage provides object storage for CV attachments. The rest of
// the system only ever handles file keys and URLs; raw bytes stop here.
package storage

import (
	"context"
	"io"
)

// Service defines the interface for object storage operations.
type Service interface {
	// UploadFile uploads a file from an io.Reader and returns the full
	// file key used for storage.
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// ObjectURL returns a stable URL for a stored object, suitable for
	// handing to external systems as a file reference.
	ObjectURL(bucket, fileKey string) string

	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// ValidateContentType checks if the content type is allowed.
	ValidateContentType(contentType string) error

	// ValidateFileSize checks if the file size is within limits.
	ValidateFileSize(sizeBytes int64) error

	// GetMaxFileSize returns the configured maximum file size in bytes.
	GetMaxFileSize() int64
}

// Config defines the configuration interface for storage.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
