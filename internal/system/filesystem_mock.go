package system

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MockFileSystem is an in-memory FileSystemManager for testing purposes.
// Set the *Err fields to simulate failures.
type MockFileSystem struct {
	mu          sync.Mutex
	files       map[string][]byte
	dirs        map[string]bool
	WriteErr    error
	RemoveErr   error
	MkdirErr    error
	WriteCalls  int
	RemoveCalls int
}

// NewMockFileSystem creates a new MockFileSystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// AddDir registers a directory and its parents.
func (m *MockFileSystem) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addDirLocked(path)
}

// AddFile seeds a file, creating its parent directories.
func (m *MockFileSystem) AddFile(path string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.addDirLocked(filepath.Dir(path))
	m.files[path] = []byte(content)
}

// Content returns the content of a file and whether it exists.
func (m *MockFileSystem) Content(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(path)]
	return string(data), ok
}

func (m *MockFileSystem) addDirLocked(path string) {
	path = filepath.Clean(path)
	for {
		m.dirs[path] = true
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		path = parent
	}
}

// FileExists reports whether a file or directory exists.
func (m *MockFileSystem) FileExists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	_, isFile := m.files[path]
	return isFile || m.dirs[path], nil
}

// DirectoryExists reports whether a directory exists.
func (m *MockFileSystem) DirectoryExists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[filepath.Clean(path)], nil
}

// IsFile reports whether a regular file exists.
func (m *MockFileSystem) IsFile(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok, nil
}

// ReadFile returns a copy of the stored content.
func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("failed to read %s: %w", path, os.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// WriteFile captures the content that would be written to a file.
func (m *MockFileSystem) WriteFile(path string, content []byte, perms os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	path = filepath.Clean(path)
	if !m.dirs[filepath.Dir(path)] {
		return fmt.Errorf("failed to write %s: %w", path, os.ErrNotExist)
	}
	m.files[path] = append([]byte(nil), content...)
	return nil
}

// EnsureDirectory is a mock implementation of FileSystemManager.EnsureDirectory.
func (m *MockFileSystem) EnsureDirectory(path string, owner string, perms os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MkdirErr != nil {
		return m.MkdirErr
	}
	m.addDirLocked(path)
	return nil
}

// RemoveFile deletes a stored file.
func (m *MockFileSystem) RemoveFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveCalls++
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.files, filepath.Clean(path))
	return nil
}

// MockAccess is an Acquirer that hands out a fixed filesystem, or fails
// until credentials are supplied when RequireCredentials is set.
type MockAccess struct {
	FS                 FileSystemManager
	Err                error
	RequireCredentials bool
	Password           string
	Calls              int
}

// Acquire implements Acquirer.
func (a *MockAccess) Acquire(creds *Credentials) (FileSystemManager, error) {
	a.Calls++
	if a.Err != nil {
		return nil, a.Err
	}
	if a.RequireCredentials {
		if creds == nil {
			return nil, ErrCredentialsRequired
		}
		if creds.Password != a.Password {
			return nil, ErrInvalidCredentials
		}
	}
	return a.FS, nil
}
