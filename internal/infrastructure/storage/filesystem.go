package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/laundry/backend/internal/domain/asset"
	"github.com/laundry/backend/internal/domain/shared"
)

// ErrObjectNotFound is returned when no content is stored under a key
var ErrObjectNotFound = shared.NotFound("Stored file")

// FileSystemAssetStorage keeps asset content below a base directory, one
// file per storage key
type FileSystemAssetStorage struct {
	basePath string
	baseURL  string
}

// NewFileSystemAssetStorage creates the base directory if needed
func NewFileSystemAssetStorage(basePath, baseURL string) (*FileSystemAssetStorage, error) {
	if basePath == "" {
		return nil, errors.New("storage base path is required")
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid storage base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileSystemAssetStorage{basePath: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// path resolves key below basePath and rejects keys escaping it
func (s *FileSystemAssetStorage) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	full := filepath.Join(s.basePath, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.basePath, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("storage key %q escapes the base path", key)
	}
	return full, nil
}

// Put writes content to a temporary file and renames it into place, so
// readers never see a partial file
func (s *FileSystemAssetStorage) Put(ctx context.Context, key string, content io.Reader, _ int64, _ string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// Open returns the stored file
func (s *FileSystemAssetStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	full, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	return f, nil
}

// Delete removes the stored file; missing files are ignored
func (s *FileSystemAssetStorage) Delete(_ context.Context, key string) error {
	full, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// URL returns baseURL/key when a public base URL is configured. Without one
// clients download through the API and the empty string is returned.
func (s *FileSystemAssetStorage) URL(_ context.Context, key string, _ time.Duration) (string, error) {
	if s.baseURL == "" {
		return "", nil
	}
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.baseURL + "/" + strings.Join(parts, "/"), nil
}

var _ asset.Storage = (*FileSystemAssetStorage)(nil)
