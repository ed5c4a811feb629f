package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrCredentialsRequired is returned when write access to the plugin
// directory cannot be obtained without asking the administrator.
var ErrCredentialsRequired = errors.New("filesystem credentials required")

// ErrInvalidCredentials is returned when supplied credentials were rejected.
// It wraps ErrCredentialsRequired so callers can prompt again.
var ErrInvalidCredentials = fmt.Errorf("invalid filesystem credentials: %w", ErrCredentialsRequired)

// Credentials are what an administrator supplies to unlock write access.
type Credentials struct {
	Password string
}

// Acquirer hands out write access to the filesystem for the duration of a
// single operation.
type Acquirer interface {
	Acquire(creds *Credentials) (FileSystemManager, error)
}

// LocalAccess acquires write access to a directory on the local machine,
// escalating through sudo when the directory is not writable.
type LocalAccess struct {
	root     string
	runner   CommandRunner
	direct   *FileSystem
	writable func(path string) bool
}

// NewLocalAccess creates a LocalAccess for the given root directory
func NewLocalAccess(root string, runner CommandRunner) *LocalAccess {
	return &LocalAccess{
		root:     root,
		runner:   runner,
		direct:   NewFileSystem(),
		writable: isWritable,
	}
}

// Acquire returns a filesystem able to write below the root directory.
// With nil credentials it never prompts: it falls back to passwordless sudo
// and otherwise reports ErrCredentialsRequired.
func (a *LocalAccess) Acquire(creds *Credentials) (FileSystemManager, error) {
	if a.writable(nearestExisting(a.root)) {
		return a.direct, nil
	}

	if creds == nil {
		if _, err := a.runner.Run("sudo", "-n", "true"); err == nil {
			return NewSudoFileSystem(a.runner, ""), nil
		}
		return nil, ErrCredentialsRequired
	}

	if output, err := a.runner.RunWithInput(creds.Password+"\n", "sudo", "-S", "-p", "", "-v"); err != nil {
		return nil, fmt.Errorf("%w: %v (%s)", ErrInvalidCredentials, err, output)
	}

	return NewSudoFileSystem(a.runner, creds.Password), nil
}

// Root returns the directory access is acquired for
func (a *LocalAccess) Root() string {
	return a.root
}

func isWritable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}

// nearestExisting walks up from path until it finds something that exists,
// since the plugin subdirectory may not have been created yet.
func nearestExisting(path string) string {
	path = filepath.Clean(path)
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}
