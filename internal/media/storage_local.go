// Copyright (c) 2026 SOYO. All rights reserved.

package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend stores objects on the API host's filesystem.
//
// Intended for development and single-node deployments; the upload directory
// must be served as static files under the configured URL prefix.
type LocalBackend struct {
	directory string
	urlPrefix string
}

// NewLocalBackend creates the upload directory if needed and returns a backend
// writing into it.
func NewLocalBackend(directory, urlPrefix string) (*LocalBackend, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("media: failed to create upload directory: %w", err)
	}

	return &LocalBackend{
		directory: directory,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

// Store writes the object to disk and returns its public URL.
func (backend *LocalBackend) Store(_ context.Context, key, _ string, data []byte) (string, error) {
	// Keys are generated internally, but never trust a path separator.
	cleaned := filepath.Base(key)

	path := filepath.Join(backend.directory, cleaned)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("media: failed to write file: %w", err)
	}

	return backend.urlPrefix + "/" + cleaned, nil
}

// Delete removes the object from disk. A missing file is treated as success.
func (backend *LocalBackend) Delete(_ context.Context, key string) error {
	path := filepath.Join(backend.directory, filepath.Base(key))

	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("media: failed to delete file: %w", err)
	}

	return nil
}
