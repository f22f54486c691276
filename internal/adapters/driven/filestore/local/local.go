// Package local provides a filesystem-backed store for uploaded
// documents.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mhaddaou/docchat/internal/core/domain"
	"github.com/mhaddaou/docchat/internal/core/ports/driven"
)

// Ensure FileStore implements the interface.
var _ driven.FileStore = (*FileStore)(nil)

// FileStore keeps uploads under <root>/<owner>/<session>/<uuid><ext>.
// The generated name avoids collisions between uploads that share a
// filename; the original name lives on the document record instead.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at the given directory.
// If root is empty, defaults to ~/.docchat/uploads.
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		root = filepath.Join(home, ".docchat", "uploads")
	}
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Root returns the uploads root directory.
func (f *FileStore) Root() string {
	return f.root
}

// Save durably stores data and returns the absolute path it was
// written to.
func (f *FileStore) Save(_ context.Context, ownerID, sessionID, filename string, data []byte) (string, error) {
	if ownerID == "" || sessionID == "" {
		return "", fmt.Errorf("%w: owner and session ids are required", domain.ErrInvalidInput)
	}

	// Owner and session ids come from trusted layers, but keep path
	// separators out of directory names regardless.
	dir := filepath.Join(f.root, sanitize(ownerID), sanitize(sessionID))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating session directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(dir, uuid.New().String()+ext)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return path, nil
}

// Delete removes a stored upload. A location that is already gone is
// treated as deleted.
func (f *FileStore) Delete(_ context.Context, location string) error {
	if err := os.Remove(location); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload: %w", err)
	}
	return nil
}

func sanitize(part string) string {
	part = strings.ReplaceAll(part, string(os.PathSeparator), "_")
	return strings.ReplaceAll(part, "..", "_")
}
