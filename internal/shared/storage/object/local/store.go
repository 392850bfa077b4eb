package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/util"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
	baseURL string
}

// New creates a new local object store rooted at baseDir whose objects are served under baseURL.
func New(baseDir, baseURL string) *Store {
	return &Store{baseDir: baseDir, baseURL: baseURL}
}

// Dir returns the directory objects are written to.
func (s *Store) Dir() string {
	return s.baseDir
}

// Save writes the reader to baseDir/key. The file only appears once fully written.
func (s *Store) Save(ctx context.Context, key string, r io.Reader) (object.Object, error) {
	name, err := util.SanitizeFileName(key)
	if err != nil {
		return object.Object{}, fmt.Errorf("sanitize key: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return object.Object{}, fmt.Errorf("mkdir: %w", err)
	}

	mimeType, body, err := object.Sniff(r)
	if err != nil {
		return object.Object{}, fmt.Errorf("read sniff: %w", err)
	}

	tmp, err := os.CreateTemp(s.baseDir, ".upload-*")
	if err != nil {
		return object.Object{}, fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	written, err := io.Copy(tmp, body)
	if err != nil {
		tmp.Close()
		return object.Object{}, fmt.Errorf("write body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return object.Object{}, fmt.Errorf("close temp: %w", err)
	}

	fullPath := filepath.Join(s.baseDir, name)
	if _, err := os.Stat(fullPath); err == nil {
		return object.Object{}, fmt.Errorf("object %s already exists", name)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		return object.Object{}, fmt.Errorf("rename: %w", err)
	}
	if err := os.Chmod(fullPath, 0o644); err != nil {
		return object.Object{}, fmt.Errorf("chmod: %w", err)
	}

	return object.Object{Key: name, SizeBytes: written, MimeType: mimeType}, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := util.SanitizeFileName(key)
	if err != nil {
		return nil, fmt.Errorf("invalid storage key")
	}
	f, err := os.Open(filepath.Join(s.baseDir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, object.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes a stored object. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := util.SanitizeFileName(key)
	if err != nil {
		return fmt.Errorf("invalid storage key")
	}
	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL returns the public URL of key.
func (s *Store) URL(key string) string {
	return object.JoinURL(s.baseURL, key)
}

var _ object.ObjectStore = (*Store)(nil)
