package system

import (
	"fmt"
	"os"
	"strings"
)

// SudoFileSystem performs writes through sudo for plugin directories the
// current user cannot write to. Existence checks go straight to the
// filesystem.
type SudoFileSystem struct {
	FileSystem
	runner   CommandRunner
	password string
}

// NewSudoFileSystem creates a SudoFileSystem. An empty password means
// passwordless sudo (sudo -n).
func NewSudoFileSystem(runner CommandRunner, password string) *SudoFileSystem {
	return &SudoFileSystem{
		runner:   runner,
		password: password,
	}
}

// sudo runs args as root and folds the command output into any error
func (s *SudoFileSystem) sudo(args ...string) (string, error) {
	var (
		output string
		err    error
	)
	if s.password == "" {
		output, err = s.runner.Run("sudo", append([]string{"-n"}, args...)...)
	} else {
		output, err = s.runner.RunWithInput(s.password+"\n", "sudo", append([]string{"-S", "-p", ""}, args...)...)
	}
	if err != nil {
		if msg := strings.TrimSpace(output); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return output, fmt.Errorf("sudo %s: %w", args[0], err)
	}
	return output, nil
}

// ReadFile returns the file bytes from sudo's standard output. Diagnostics
// sudo prints on standard error never reach the content.
func (s *SudoFileSystem) ReadFile(path string) ([]byte, error) {
	var (
		output string
		err    error
	)
	if s.password == "" {
		output, err = s.runner.Output("", "sudo", "-n", "cat", "--", path)
	} else {
		output, err = s.runner.Output(s.password+"\n", "sudo", "-S", "-p", "", "cat", "--", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return []byte(output), nil
}

// EnsureDirectory creates path with perms, handing it to owner
// ("user" or "user:group") when one is given
func (s *SudoFileSystem) EnsureDirectory(path string, owner string, perms os.FileMode) error {
	info, err := stat(path)
	switch {
	case err != nil:
		return err
	case info != nil && !info.IsDir():
		return fmt.Errorf("%s exists but is not a directory", path)
	case info != nil:
		return nil
	}

	if _, err := s.sudo("mkdir", "-p", "-m", octal(perms), path); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	if owner == "" {
		return nil
	}
	return s.Chown(path, owner)
}

func (s *SudoFileSystem) Chown(path string, owner string) error {
	if _, err := s.sudo("chown", owner, path); err != nil {
		return fmt.Errorf("failed to chown %s to %s: %w", path, owner, err)
	}
	return nil
}

// WriteFile stages content in a private temp file and installs it over
// path with perms in a single sudo call
func (s *SudoFileSystem) WriteFile(path string, content []byte, perms os.FileMode) error {
	tmp, err := os.CreateTemp("", "functionality-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := fillTemp(tmp, content, 0600); err != nil {
		return err
	}
	if _, err := s.sudo("install", "-m", octal(perms), tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *SudoFileSystem) RemoveFile(path string) error {
	if _, err := s.sudo("rm", "-f", path); err != nil {
		return fmt.Errorf("failed to remove file %s: %w", path, err)
	}
	return nil
}

func octal(perms os.FileMode) string {
	return fmt.Sprintf("%o", perms.Perm())
}
