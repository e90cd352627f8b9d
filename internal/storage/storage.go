package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"artfolio/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
	// URL returns the public address of key.
	URL(key string) string
}

const (
	DriverLocal = "local"
	DriverMinio = "minio"
)

// New builds the backend selected by cfg.Driver.
func New(cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Driver {
	case "", DriverLocal:
		return NewLocalDisk(cfg.LocalDir, cfg.PublicURL), nil
	case DriverMinio:
		return NewMinioClient(cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
