// Package config holds the settings of the functionality tool: the site
// settings file, a KEY=value file describing the site, the administrator
// and the host layout, and the Options that override file names, header
// fields and feature flags.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sheabunge/functionality/internal/system"
)

// ErrUnknownKey is returned when setting a key that is not a site setting
var ErrUnknownKey = errors.New("unknown setting")

// Config is the site settings file. It is safe for concurrent use.
type Config struct {
	filePath string
	mu       sync.RWMutex
	data     map[string]string
	loaded   bool
}

// New creates a Config for filePath, defaulting to ~/.functionality.conf
func New(filePath string) *Config {
	if filePath == "" {
		filePath = filepath.Join(homeDir(), ".functionality.conf")
	}

	return &Config{
		filePath: filePath,
		data:     make(map[string]string),
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return home
}

// Load reads the settings file. A missing file is an empty configuration.
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

func (c *Config) loadLocked() error {
	content, err := os.ReadFile(c.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		c.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	data, err := parse(content)
	if err != nil {
		return fmt.Errorf("%s: %w", c.filePath, err)
	}

	c.data = data
	c.loaded = true
	return nil
}

// parse reads KEY=value lines. Blank lines and # comments are skipped, an
// optional "export " prefix is dropped and quoted values are unquoted.
func parse(content []byte) (map[string]string, error) {
	data := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected KEY=value", n)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
			if value[0] == '"' {
				unquoted, err := strconv.Unquote(value)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", n, err)
				}
				value = unquoted
			} else {
				value = value[1 : len(value)-1]
			}
		}

		data[key] = value
	}

	return data, scanner.Err()
}

// ensureLoaded loads the file on first use. Callers hold c.mu for writing.
func (c *Config) ensureLoaded() error {
	if c.loaded {
		return nil
	}
	return c.loadLocked()
}

// Save writes the settings file atomically
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saveLocked()
}

func (c *Config) saveLocked() error {
	var b strings.Builder
	b.WriteString("# Functionality site settings\n")
	fmt.Fprintf(&b, "# Generated: %s\n\n", time.Now().Format(time.RFC3339))

	keys := make([]string, 0, len(c.data))
	for key := range c.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, quote(c.data[key]))
	}

	fsys := system.NewFileSystem()
	if err := fsys.EnsureDirectory(filepath.Dir(c.filePath), "", system.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := fsys.WriteFile(c.filePath, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// quote wraps values that would not survive parse unchanged
func quote(value string) string {
	if value != strings.TrimSpace(value) || strings.ContainsAny(value, "\"'#\n") {
		return strconv.Quote(value)
	}
	return value
}

// Get returns a stored value
func (c *Config) Get(key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return "", err
	}
	value, ok := c.data[key]
	if !ok {
		return "", fmt.Errorf("config key not found: %s", key)
	}
	return value, nil
}

// GetOrDefault returns the stored value, the Defaults entry or fallback,
// in that order
func (c *Config) GetOrDefault(key, fallback string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err == nil {
		if value, ok := c.data[key]; ok {
			return value
		}
	}
	if value, ok := Defaults[key]; ok {
		return value
	}
	return fallback
}

// Set stores a known setting and saves the file
func (c *Config) Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return fmt.Errorf("failed to load existing config before set: %w", err)
	}
	c.data[key] = value
	return c.saveLocked()
}

// Delete removes a setting and saves the file
func (c *Config) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(); err != nil {
		return fmt.Errorf("failed to load existing config before delete: %w", err)
	}
	if _, ok := c.data[key]; !ok {
		return nil
	}
	delete(c.data, key)
	return c.saveLocked()
}

// GetAll returns a copy of the stored settings
func (c *Config) GetAll() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]string, len(c.data))
	if err := c.ensureLoaded(); err != nil {
		return result
	}
	for k, v := range c.data {
		result[k] = v
	}
	return result
}

// FilePath returns the configuration file path
func (c *Config) FilePath() string {
	return c.filePath
}
