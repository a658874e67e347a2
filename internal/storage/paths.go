package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// EnvShelfDir overrides the shared namespace directory.
	EnvShelfDir = "SHELF_DIR"
	// shelfDirName is the directory name under the XDG data home.
	shelfDirName = "shelf"
)

// DefaultDir returns the shared namespace directory.
// SHELF_DIR wins; otherwise $XDG_DATA_HOME/shelf.
func DefaultDir() string {
	if dir := os.Getenv(EnvShelfDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.DataHome, shelfDirName)
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
