package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	proposalapp "github.com/granada-os/backend/internal/application/proposal"
)

// Ensure LocalObjectStorage implements ObjectStorageService
var _ proposalapp.ObjectStorageService = (*LocalObjectStorage)(nil)

// LocalObjectStorage stores objects on the local filesystem.
// Upload and download URLs point at the application's own file endpoints,
// so no external object store is needed. Intended for development and
// single-node deployments.
type LocalObjectStorage struct {
	root string
	// BaseURL is the base URL for generating upload/download URLs
	BaseURL string
}

// NewLocalObjectStorage creates a LocalObjectStorage rooted at the given path.
// The directory is created if it does not exist.
func NewLocalObjectStorage(root string) (*LocalObjectStorage, error) {
	if root == "" {
		return nil, errors.New("storage path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalObjectStorage{
		root:    root,
		BaseURL: "http://localhost:8080/files",
	}, nil
}

// objectPath resolves a storage key to a path under the root, rejecting
// keys that would escape it.
func (s *LocalObjectStorage) objectPath(storageKey string) (string, error) {
	if strings.Contains(storageKey, "..") {
		return "", errors.New("invalid storage key")
	}
	return filepath.Join(s.root, filepath.Clean("/"+storageKey)), nil
}

// GenerateUploadURL returns a URL on the application's file endpoint
func (s *LocalObjectStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/upload/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// GenerateDownloadURL returns a URL on the application's file endpoint
func (s *LocalObjectStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// DeleteObject removes the file for the given storage key.
// Deleting a key that was never uploaded is not an error.
func (s *LocalObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	path, err := s.objectPath(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// ObjectExists reports whether a file exists for the given storage key
func (s *LocalObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	path, err := s.objectPath(storageKey)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// ReadObject returns the file contents for the given storage key
func (s *LocalObjectStorage) ReadObject(ctx context.Context, storageKey string) ([]byte, error) {
	if storageKey == "" {
		return nil, errors.New("storage key is required")
	}

	path, err := s.objectPath(storageKey)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

// WriteObject stores file contents for the given storage key.
// Used by the local upload endpoint that backs GenerateUploadURL.
func (s *LocalObjectStorage) WriteObject(ctx context.Context, storageKey string, data []byte) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	path, err := s.objectPath(storageKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}
	return nil
}
