package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalFileStorage opens media from the local filesystem.
type LocalFileStorage struct{}

// NewLocalFileStorage creates a new local file storage instance
func NewLocalFileStorage() *LocalFileStorage {
	return &LocalFileStorage{}
}

// Open opens the file at path.
func (s *LocalFileStorage) Open(ctx context.Context, path string) (*Media, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return &Media{ReadCloser: file, name: filepath.Base(path), size: info.Size()}, nil
}
