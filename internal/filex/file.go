// Package filex contains filesystem helpers for the client: ensuring local
// working directories exist and saving downloaded file content to disk.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and any missing parents) and returns its path.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// DirSaver writes downloaded files into a fixed directory. The file name is
// reduced to its base component so a server-supplied name cannot escape Dir.
type DirSaver struct {
	Dir string
}

// Save writes content to a file named after name inside the saver's
// directory and returns the full path of the written file.
func (s DirSaver) Save(name string, content []byte) (string, error) {
	dir, err := EnsureDir(s.Dir)
	if err != nil {
		return "", err
	}

	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o660); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
