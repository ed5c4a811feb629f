// Package plugins tracks which plugin files the host treats as active.
// State is kept as marker files, one per plugin id, so it survives between
// runs and can be inspected by hand.
package plugins

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	activeSuffix   = ".active"
	inactiveSuffix = ".inactive"
)

// Host is the extension lifecycle of the host platform. Plugin ids are paths
// relative to the plugin directory, such as "functions/functions.php".
type Host interface {
	IsActive(id string) (bool, error)
	Activate(id string) error
	Deactivate(id string) error
	// Known reports whether any activation state was ever recorded for id
	Known(id string) (bool, error)
}

// Registry manages activation marker files
type Registry struct {
	dir string
	mu  sync.Mutex
}

// NewRegistry creates a new Registry storing markers in dir
func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir}
}

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("plugin id cannot be empty")
	}
	for _, part := range strings.Split(id, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("plugin id cannot contain '.' or '..' segments: %s", id)
		}
	}
	return nil
}

// markerPath maps a plugin id to its marker. Slashes in the id are escaped
// so every marker lives directly in the registry directory.
func (r *Registry) markerPath(id, suffix string) string {
	return filepath.Join(r.dir, url.PathEscape(id)+suffix)
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check marker existence: %w", err)
}

// IsActive checks if a plugin is marked active. A leftover inactive marker
// next to the active one, from an interrupted state change, means inactive.
func (r *Registry) IsActive(id string) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}
	active, err := exists(r.markerPath(id, activeSuffix))
	if err != nil || !active {
		return false, err
	}
	inactive, err := exists(r.markerPath(id, inactiveSuffix))
	if err != nil {
		return false, err
	}
	return !inactive, nil
}

// Known reports whether the plugin was ever activated or deactivated
func (r *Registry) Known(id string) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}
	for _, suffix := range []string{activeSuffix, inactiveSuffix} {
		ok, err := exists(r.markerPath(id, suffix))
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// Activate marks a plugin active (idempotent)
func (r *Registry) Activate(id string) error {
	return r.set(id, activeSuffix, inactiveSuffix)
}

// Deactivate marks a plugin inactive (idempotent). Deactivating a plugin
// that was never active still records it as known.
func (r *Registry) Deactivate(id string) error {
	return r.set(id, inactiveSuffix, activeSuffix)
}

func (r *Registry) set(id, create, remove string) error {
	if err := validateID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create marker directory: %w", err)
	}

	// The new marker is written before the old one goes, so the id never
	// loses its recorded state.
	file, err := os.Create(r.markerPath(id, create))
	if err != nil {
		return fmt.Errorf("failed to create marker file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write marker file: %w", err)
	}

	if err := os.Remove(r.markerPath(id, remove)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove marker file: %w", err)
	}

	return nil
}

// Active returns the ids of all active plugins, sorted
func (r *Registry) Active() ([]string, error) {
	if _, err := os.Stat(r.dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read marker directory: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, activeSuffix) {
			continue
		}
		id, err := url.PathUnescape(strings.TrimSuffix(name, activeSuffix))
		if err != nil {
			continue
		}
		if active, err := r.IsActive(id); err != nil || !active {
			continue
		}
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids, nil
}

// Dir returns the marker directory path
func (r *Registry) Dir() string {
	return r.dir
}
