package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/brunomdrs/processo-extractor/config"
	"github.com/brunomdrs/processo-extractor/pkg/logger"
	"github.com/brunomdrs/processo-extractor/pkg/storage/local"
	"github.com/brunomdrs/processo-extractor/pkg/storage/minio"
	"github.com/brunomdrs/processo-extractor/pkg/storage/s3"
)

type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
	StorageTypeMinio StorageType = "minio"
)

// Storage holds uploaded documents and their split parts, keyed by an opaque
// object key.
type Storage interface {
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// CleanupBefore removes objects last modified before the threshold.
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// NewStorage builds the backend selected by configuration.
func NewStorage(storageType StorageType, log logger.Logger) (Storage, error) {
	switch storageType {
	case StorageTypeLocal:
		return local.New(config.GetStorageConfig().LocalDir, log)
	case StorageTypeS3:
		return s3.GetClient(log)
	case StorageTypeMinio:
		return minio.GetClient(log)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ReadObject fetches an object and returns its full contents.
func ReadObject(ctx context.Context, store Storage, key string) ([]byte, error) {
	rc, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
