package common

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// FallbackFileName is used when sanitizing leaves nothing usable
const FallbackFileName = "unnamed-file"

// Characters stripped from file names, including both path separators
const unsafeFileNameChars = "?[]/\\=<>:;,'\"&$#*()|~`!{}%+’«»”“"

var (
	whitespaceRun = regexp.MustCompile(`[\s-]+`)
	dotRun        = regexp.MustCompile(`\.{2,}`)
)

// SanitizeFileName strips characters that are unsafe in a file name.
// Path separators are removed, whitespace becomes dashes, runs of dots
// collapse to one and leading/trailing punctuation is trimmed, so the
// result never contains a traversal sequence. It never fails: input that
// sanitizes to nothing yields FallbackFileName.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == 0 || unicode.IsControl(r) || strings.ContainsRune(unsafeFileNameChars, r) {
			return -1
		}
		return r
	}, name)

	name = whitespaceRun.ReplaceAllString(name, "-")
	name = dotRun.ReplaceAllString(name, ".")
	name = strings.Trim(name, ".-_")

	if name == "" {
		return FallbackFileName
	}

	return name
}

// ValidateDirectory validates a directory relative to the plugin root
func ValidateDirectory(dir string) error {
	if filepath.IsAbs(dir) {
		return fmt.Errorf("directory must be relative to the plugin directory: %s", dir)
	}
	for _, part := range strings.FieldsFunc(dir, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return fmt.Errorf("directory cannot contain '..': %s", dir)
		}
	}
	return nil
}

// ValidatePath validates that a path is absolute
func ValidatePath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}
	return nil
}

// ValidateURL validates an absolute http(s) URL. Empty values are allowed
// since most URLs in the site settings are optional.
func ValidateURL(raw string) error {
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %s: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https: %s", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host: %s", raw)
	}
	return nil
}

// ValidateNotEmpty validates that a string is not empty
func ValidateNotEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}
