package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

// LocalStorage keeps payloads on the filesystem under a base directory.
// Object keys map to relative paths; path escapes are rejected.
type LocalStorage struct {
	dir    string
	logger logger.Logger
}

func New(dir string, log logger.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStorage{dir: dir, logger: log}, nil
}

func (l *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object key: %s", key)
	}
	return filepath.Join(l.dir, clean), nil
}

func (l *LocalStorage) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
	path, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		l.logger.Error("Failed to store object",
			logger.String("key", key),
			logger.Error(err),
		)
		return "", fmt.Errorf("failed to store object: %w", err)
	}
	return key, nil
}

func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return f, nil
}

func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (l *LocalStorage) CleanupBefore(ctx context.Context, threshold time.Time) error {
	return filepath.Walk(l.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if info.ModTime().Before(threshold) {
			if rmErr := os.Remove(path); rmErr != nil {
				l.logger.Error("Failed to delete expired object",
					logger.String("path", path),
					logger.Error(rmErr),
				)
				return nil
			}
			l.logger.Info("Deleted expired object",
				logger.String("path", path),
				logger.Time("lastModified", info.ModTime()),
			)
		}
		return nil
	})
}
