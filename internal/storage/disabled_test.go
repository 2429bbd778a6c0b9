package storage

import (
	"context"
	"strings"
	"testing"
)

func TestDisabledService_AcceptsUploadWithoutStoring(t *testing.T) {
	svc := NewDisabledService(10 << 20)

	key, err := svc.UploadFile(context.Background(), "cv-uploads", "cv", "cv.pdf", "application/pdf", strings.NewReader("%PDF-1.4 test"), 13)
	if err != nil {
		t.Fatalf("upload must be acknowledged: %v", err)
	}
	if !strings.HasPrefix(key, "cv/cv_") || !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("unexpected file key: %q", key)
	}
	if url := svc.ObjectURL("cv-uploads", key); url != "" {
		t.Fatalf("disabled store must not hand out URLs, got %q", url)
	}
}

func TestDisabledService_StillValidatesUploads(t *testing.T) {
	svc := NewDisabledService(1024)

	if err := svc.ValidateContentType("application/x-msdownload"); err == nil {
		t.Fatalf("expected rejected content type")
	}
	if err := svc.ValidateContentType("application/pdf; charset=binary"); err != nil {
		t.Fatalf("expected accepted content type: %v", err)
	}
	if err := svc.ValidateFileSize(2048); err == nil {
		t.Fatalf("expected oversized file rejection")
	}
	if err := svc.ValidateFileSize(512); err != nil {
		t.Fatalf("expected accepted size: %v", err)
	}
	if got := svc.GetMaxFileSize(); got != 1024 {
		t.Fatalf("expected configured limit, got %d", got)
	}
}

func TestDisabledService_EnsureBucketIsANoOp(t *testing.T) {
	svc := NewDisabledService(1024)
	if err := svc.EnsureBucketExists(context.Background(), "cv-uploads"); err != nil {
		t.Fatalf("no bucket to ensure: %v", err)
	}
}
