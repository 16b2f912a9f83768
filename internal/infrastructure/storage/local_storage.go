package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	filefolderapp "github.com/ventureflow/backend/internal/application/filefolder"
	"github.com/ventureflow/backend/internal/domain/shared"
)

var _ filefolderapp.ObjectStorage = (*LocalObjectStorage)(nil)

// LocalObjectStorage keeps objects as files below a root directory
type LocalObjectStorage struct {
	root    string
	baseURL string
}

// NewLocalObjectStorage creates the root directory if needed
func NewLocalObjectStorage(root, baseURL string) (*LocalObjectStorage, error) {
	if root == "" {
		return nil, errors.New("storage local path is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid storage local path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalObjectStorage{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// path resolves key inside root and rejects traversal
func (s *LocalObjectStorage) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	p := filepath.Join(s.root, filepath.FromSlash(key))
	if p != s.root && !strings.HasPrefix(p, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage key %q escapes storage root", key)
	}
	return p, nil
}

// Put writes to a temp file and renames it into place
func (s *LocalObjectStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create object: %w", err)
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store object: %w", err)
	}
	return nil
}

// Open opens the stored file for reading
func (s *LocalObjectStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}

// Delete removes the stored file
func (s *LocalObjectStorage) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URL joins the public base URL and key; without a base URL the key is returned
func (s *LocalObjectStorage) URL(key string) string {
	if s.baseURL == "" {
		return key
	}
	return s.baseURL + "/" + key
}
