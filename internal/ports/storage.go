package ports

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrSignedURLUnsupported is returned by providers that cannot mint
// time-limited URLs. Callers must not silently substitute an unsigned URL.
var ErrSignedURLUnsupported = errors.New("storage provider does not support signed urls")

type PutObjectInput struct {
	ObjectKey   string
	ContentType string
	Reader      io.Reader
	Size        int64
}

type PutObjectOutput struct {
	// localfs keeps the caller's object_key; gdrive returns the real
	// fileId so later reads and deletes can use it.
	ObjectKey string
	Size      int64
}

type SignedURLOutput struct {
	URL       string
	ExpiresAt time.Time
}

// StorageProvider is the contract the asset library and the asset resolver
// ride on. Implementations: localfs, gdrive.
type StorageProvider interface {
	Provider() string

	PutObject(ctx context.Context, in PutObjectInput) (PutObjectOutput, error)
	GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error)
	DeleteObject(ctx context.Context, objectKey string) error

	// GetSignedURL exchanges an object key for a time-limited URL.
	// Providers without signing return ErrSignedURLUnsupported.
	GetSignedURL(ctx context.Context, objectKey string, expiresIn time.Duration) (SignedURLOutput, error)
}
