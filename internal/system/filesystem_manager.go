package system

import "os"

// Permissions used for files and directories created in the plugin directory.
const (
	FileMode os.FileMode = 0644
	DirMode  os.FileMode = 0755
)

// FileReader is the read-only part of the filesystem. It never needs
// credentials, so callers use it for existence checks before acquiring
// write access.
type FileReader interface {
	FileExists(path string) (bool, error)
	DirectoryExists(path string) (bool, error)
	IsFile(path string) (bool, error)
	ReadFile(path string) ([]byte, error)
}

// FileSystemManager defines the interface for file system operations.
// This allows for mocking the file system in tests.
type FileSystemManager interface {
	FileReader
	WriteFile(path string, content []byte, perms os.FileMode) error
	EnsureDirectory(path string, owner string, perms os.FileMode) error
	RemoveFile(path string) error
}
