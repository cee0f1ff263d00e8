package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	// PresignedURLTTL bounds how long a shared download link stays live.
	PresignedURLTTL = 15 * time.Minute

	// maxArtifactBytes caps a single upload. A flyer for a large selection
	// with thumbnails lands well under this.
	maxArtifactBytes = 25 << 20
)

// allowedContentTypes lists the artifact types this subsystem produces.
// Anything else is a caller bug, not a user error.
var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
}

// MinIOService implements ArchiveService using MinIO.
type MinIOService struct {
	client *minio.Client
}

// NewMinIOService creates the archive adapter from configuration.
func NewMinIOService(cfg Config) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	return &MinIOService{client: client}, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOService) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// UploadArtifact stores one rendered artifact. The key is the file name
// prefixed with a short random segment so repeated renders never overwrite
// each other.
func (s *MinIOService) UploadArtifact(ctx context.Context, bucket, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	if err := validateContentType(contentType); err != nil {
		return "", err
	}
	if err := validateSize(size); err != nil {
		return "", err
	}

	ext := path.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	fileKey := fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext)

	_, err := s.client.PutObject(ctx, bucket, fileKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload artifact %s: %w", fileKey, err)
	}
	return fileKey, nil
}

// GenerateDownloadURL creates a presigned GET URL for an archived artifact.
func (s *MinIOService) GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error) {
	expiresAt := time.Now().Add(PresignedURLTTL)

	presignedURL, err := s.client.PresignedGetObject(ctx, bucket, fileKey, PresignedURLTTL, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("presign download for %s: %w", fileKey, err)
	}

	return &PresignedURL{
		URL:       presignedURL.String(),
		FileKey:   fileKey,
		ExpiresAt: expiresAt,
	}, nil
}

// DeleteArtifact removes an archived artifact.
func (s *MinIOService) DeleteArtifact(ctx context.Context, bucket, fileKey string) error {
	if err := s.client.RemoveObject(ctx, bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete artifact %s: %w", fileKey, err)
	}
	return nil
}

func validateContentType(contentType string) error {
	normalized := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	if !allowedContentTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

func validateSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("artifact size must be greater than 0")
	}
	if sizeBytes > maxArtifactBytes {
		return fmt.Errorf("artifact size %d exceeds maximum of %d bytes", sizeBytes, maxArtifactBytes)
	}
	return nil
}
