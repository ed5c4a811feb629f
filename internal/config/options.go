package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sheabunge/functionality/internal/common"
)

// HeaderField is one "Key: Value" line of a generated header comment.
type HeaderField struct {
	Key   string `yaml:"key" env:"KEY"`
	Value string `yaml:"value" env:"VALUE"`
}

// Options enumerates every override point of the managed files. Values are
// layered: defaults, then the YAML options file, then .env and FUNCTIONALITY_*
// environment variables, then command-line flags.
type Options struct {
	// Filename of the functions plugin file
	Filename string `yaml:"filename" env:"FUNCTIONALITY_FILENAME"`
	// Directory below the plugin directory holding the managed files
	Directory string `yaml:"directory" env:"FUNCTIONALITY_DIRECTORY"`
	// CSSFilename of the stylesheet
	CSSFilename string `yaml:"css_filename" env:"FUNCTIONALITY_CSS_FILENAME"`

	EnableStyles  bool `yaml:"enable_styles" env:"FUNCTIONALITY_ENABLE_STYLES"`
	EnqueueStyles bool `yaml:"enqueue_styles" env:"FUNCTIONALITY_ENQUEUE_STYLES"`
	// Activate the functions plugin after creating it
	Activate bool `yaml:"activate" env:"FUNCTIONALITY_ACTIVATE"`

	// Overrides for generated header fields. A matching key is replaced in
	// place, a new key is appended and an empty value removes the field.
	PluginHeader []HeaderField `yaml:"plugin_header" envPrefix:"FUNCTIONALITY_PLUGIN_HEADER_"`
	CSSHeader    []HeaderField `yaml:"css_header" envPrefix:"FUNCTIONALITY_CSS_HEADER_"`
}

// DefaultOptions returns the options used when nothing overrides them
func DefaultOptions() Options {
	return Options{
		Filename:      "functions.php",
		Directory:     "functions",
		CSSFilename:   "style.css",
		EnableStyles:  false,
		EnqueueStyles: true,
		Activate:      true,
	}
}

// DefaultOptionsPath returns the options file looked up when none is given
func DefaultOptionsPath() string {
	return filepath.Join(homeDir(), ".config", "functionality", "options.yaml")
}

// LoadOptions resolves Options. An explicitly given path must exist; the
// default path is optional.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	explicit := path != ""
	if !explicit {
		path = DefaultOptionsPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return opts, fmt.Errorf("failed to parse options file %s: %w", path, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return opts, fmt.Errorf("failed to read options file %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return opts, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := env.Parse(&opts); err != nil {
		return opts, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}

	return opts, nil
}

// Validate checks option values that cannot be repaired by sanitizing
func (o Options) Validate() error {
	if err := common.ValidateDirectory(o.Directory); err != nil {
		return fmt.Errorf("invalid directory option: %w", err)
	}

	for _, f := range append(append([]HeaderField{}, o.PluginHeader...), o.CSSHeader...) {
		if err := common.ValidateNotEmpty(f.Key); err != nil {
			return fmt.Errorf("invalid header override: key %w", err)
		}
	}

	return nil
}

// Save writes the options as YAML
func (o Options) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create options directory: %w", err)
	}

	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
