package system

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem reads and writes with the permissions of the current process
type FileSystem struct{}

// NewFileSystem creates a new FileSystem instance
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// stat returns nil info and no error when path does not exist
func stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info, nil
}

// FileExists reports whether anything exists at path
func (f *FileSystem) FileExists(path string) (bool, error) {
	info, err := stat(path)
	return info != nil, err
}

// DirectoryExists reports whether path is an existing directory
func (f *FileSystem) DirectoryExists(path string) (bool, error) {
	info, err := stat(path)
	return info != nil && info.IsDir(), err
}

// IsFile reports whether path is an existing regular file
func (f *FileSystem) IsFile(path string) (bool, error) {
	info, err := stat(path)
	return info != nil && info.Mode().IsRegular(), err
}

func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// EnsureDirectory creates path and its parents. The direct filesystem
// cannot hand directories to another owner, so a non-empty owner is an
// error once the directory is created.
func (f *FileSystem) EnsureDirectory(path string, owner string, perms os.FileMode) error {
	info, err := stat(path)
	switch {
	case err != nil:
		return err
	case info != nil && !info.IsDir():
		return fmt.Errorf("%s exists but is not a directory", path)
	case info != nil:
		return nil
	}

	if err := os.MkdirAll(path, perms); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	if owner != "" {
		return fmt.Errorf("cannot set owner %s on %s without elevated access", owner, path)
	}
	return nil
}

// WriteFile replaces path atomically: content goes to a hidden sibling that
// is renamed over the target once synced.
func (f *FileSystem) WriteFile(path string, content []byte, perms os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := fillTemp(tmp, content, perms); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move file to %s: %w", path, err)
	}
	return nil
}

func fillTemp(tmp *os.File, content []byte, perms os.FileMode) error {
	_, werr := tmp.Write(content)
	if werr == nil {
		werr = tmp.Chmod(perms)
	}
	if werr == nil {
		werr = tmp.Sync()
	}
	cerr := tmp.Close()

	if werr != nil {
		return fmt.Errorf("failed to write temp file %s: %w", tmp.Name(), werr)
	}
	if cerr != nil {
		return fmt.Errorf("failed to close temp file %s: %w", tmp.Name(), cerr)
	}
	return nil
}

// RemoveFile removes path; a missing file is not an error
func (f *FileSystem) RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove file %s: %w", path, err)
	}
	return nil
}
