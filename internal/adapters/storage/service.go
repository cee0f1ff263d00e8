// Package storage archives rendered broadcast artifacts (flyer PDFs,
// collage JPEGs) in S3-compatible object storage and hands out presigned
// download URLs so the API never proxies file bytes.
package storage

import (
	"context"
	"io"
	"time"
)

// PresignedURL is a time-limited download link for an archived artifact.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ArchiveService stores rendered artifacts and produces download links.
type ArchiveService interface {
	// UploadArtifact stores one rendered artifact under the given bucket
	// and returns the file key it was stored as.
	UploadArtifact(ctx context.Context, bucket, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// GenerateDownloadURL creates a presigned GET URL for an archived
	// artifact.
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error)

	// DeleteArtifact removes an archived artifact.
	DeleteArtifact(ctx context.Context, bucket, fileKey string) error

	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error
}

// Config is the least-privilege configuration view the adapter needs.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	IsMinIOEnabled() bool
}
