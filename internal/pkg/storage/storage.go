package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ReceiptStore persists uploaded receipt files and returns the stored
// path. Callers never inspect file contents; only the returned path is
// persisted alongside the owning record.
type ReceiptStore interface {
	Save(data []byte, extension string) (string, error)
}

// DiskStore implements ReceiptStore on the local filesystem
type DiskStore struct {
	root string
	dir  string
}

// NewDiskStore creates a receipt store rooted at root. Files land in
// root/dir with a generated name.
func NewDiskStore(root, dir string) *DiskStore {
	return &DiskStore{root: root, dir: dir}
}

// Save writes the file under a UUID name and returns its path relative
// to the storage root.
func (s *DiskStore) Save(data []byte, extension string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(extension), ".")
	if ext == "" {
		return "", fmt.Errorf("missing file extension")
	}

	name := uuid.NewString() + "." + ext
	relPath := filepath.Join(s.dir, name)
	fullPath := filepath.Join(s.root, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store receipt: %w", err)
	}

	return relPath, nil
}
