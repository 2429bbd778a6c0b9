package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DisabledService satisfies Service when no object store is configured.
// Uploads are validated and acknowledged but the bytes are discarded, and
// the reference carries no URL, so downstream consumers omit the file
// instead of sending a dead link.
type DisabledService struct {
	maxFileSize int64
}

// NewDisabledService creates a storage service that accepts and drops uploads.
func NewDisabledService(maxFileSize int64) *DisabledService {
	return &DisabledService{maxFileSize: maxFileSize}
}

func (s *DisabledService) UploadFile(_ context.Context, _, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	ext := path.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)
	uniqueFileName := baseName + "_" + uuid.New().String()[:8] + ext
	return filepath.ToSlash(filepath.Join(folder, uniqueFileName)), nil
}

// ObjectURL returns an empty string: there is no store to point at.
func (s *DisabledService) ObjectURL(_, _ string) string {
	return ""
}

func (s *DisabledService) EnsureBucketExists(context.Context, string) error {
	return nil
}

func (s *DisabledService) ValidateContentType(contentType string) error {
	return validateContentType(contentType)
}

func (s *DisabledService) ValidateFileSize(sizeBytes int64) error {
	return validateFileSize(sizeBytes, s.maxFileSize)
}

// GetMaxFileSize returns the configured maximum file size in bytes.
func (s *DisabledService) GetMaxFileSize() int64 {
	return s.maxFileSize
}

var _ Service = (*DisabledService)(nil)
