package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Keys of the shared namespace.
const (
	LinksKey       = "Links"
	HasLaunchedKey = "HasLaunched"
)

// Namespace is a key-value medium shared by every shelf process.
// Values are replaced whole; there are no partial writes.
type Namespace interface {
	// Get returns the value for key. ok is false when the key was never set.
	Get(key string) (value []byte, ok bool, err error)
	// Set replaces the value for key atomically.
	Set(key string, value []byte) error
	// Close releases the namespace.
	Close() error
}

// FileNamespace stores each key as <dir>/<key>.json.
type FileNamespace struct {
	dir string
}

// NewFileNamespace returns a namespace rooted at dir.
func NewFileNamespace(dir string) *FileNamespace {
	return &FileNamespace{dir: dir}
}

func (n *FileNamespace) path(key string) string {
	return filepath.Join(n.dir, key+".json")
}

// Get reads the file for key.
func (n *FileNamespace) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(n.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes value to a temp file and renames it over the key's file,
// so readers in other processes see either the old or the new blob.
func (n *FileNamespace) Set(key string, value []byte) error {
	tmp, err := os.CreateTemp(n.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, n.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for files.
func (n *FileNamespace) Close() error {
	return nil
}

// MemoryNamespace keeps values in memory. Used by tests and dry runs.
type MemoryNamespace struct {
	values map[string][]byte
}

// NewMemoryNamespace returns an empty in-memory namespace.
func NewMemoryNamespace() *MemoryNamespace {
	return &MemoryNamespace{values: make(map[string][]byte)}
}

func (n *MemoryNamespace) Get(key string) ([]byte, bool, error) {
	v, ok := n.values[key]
	return v, ok, nil
}

func (n *MemoryNamespace) Set(key string, value []byte) error {
	n.values[key] = append([]byte(nil), value...)
	return nil
}

func (n *MemoryNamespace) Close() error {
	return nil
}
