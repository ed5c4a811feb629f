// Package managed creates and tracks the files this tool owns inside the
// site's plugin directory: the functions plugin and its optional stylesheet.
package managed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/sheabunge/functionality/internal/common"
	"github.com/sheabunge/functionality/internal/config"
	"github.com/sheabunge/functionality/internal/events"
	"github.com/sheabunge/functionality/internal/i18n"
	"github.com/sheabunge/functionality/internal/plugins"
	"github.com/sheabunge/functionality/internal/system"
)

// MenuSlugPrefix prefixes the admin menu slug of every managed file
const MenuSlugPrefix = "functionality-"

// ErrWriteFailed is returned when the managed file could not be written
var ErrWriteFailed = errors.New("failed to write managed file")

// Deps are the host collaborators shared by all managed files. Plugins is
// required for the functions file; every other field has a usable default.
type Deps struct {
	// Reader answers existence checks without elevated access
	Reader system.FileReader
	// Access hands out a writable filesystem for the plugin directory
	Access system.Acquirer
	// Plugins records plugin activation state
	Plugins plugins.Host
	Events  events.Publisher
	Site    func() config.Site
	// Translator for generated text; English when nil
	Translator *i18n.Translator
	Logger     *slog.Logger
	Now        func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Reader == nil {
		d.Reader = system.NewFileSystem()
	}
	if d.Events == nil {
		d.Events = nopPublisher{}
	}
	if d.Site == nil {
		d.Site = func() config.Site { return config.Site{} }
	}
	if d.Translator == nil {
		d.Translator = i18n.New("en")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, string) {}

// Managed is a file owned by this tool
type Managed interface {
	Filename() string
	RelativePath() string
	FullPath() string
	MenuSlug() string
	EditURL() string
	// CreateFile creates the file if it does not exist. creds may be nil,
	// in which case system.ErrCredentialsRequired is returned when the
	// directory is not writable.
	CreateFile(ctx context.Context, creds *system.Credentials) error
}

// OpenFunc is run when the admin page of a managed file is opened. It makes
// sure the file exists and returns the URL of its editor.
type OpenFunc func(ctx context.Context, creds *system.Credentials) (string, error)

// MenuRegistrar receives the admin pages of managed files
type MenuRegistrar interface {
	AddPluginsPage(label, slug string, open OpenFunc)
}

// File holds the naming and location logic shared by all managed files
type File struct {
	filename     string
	directory    string
	baseLocation string
	deps         Deps
}

func newFile(filename, directory string, deps Deps) File {
	deps = deps.withDefaults()
	f := File{
		directory:    normalizeDirectory(directory),
		baseLocation: deps.Site().PluginDir,
		deps:         deps,
	}
	f.SetFilename(filename)
	return f
}

// normalizeDirectory returns dir with exactly one trailing slash, or the
// empty string for the plugin root
func normalizeDirectory(dir string) string {
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	if dir == "" {
		return ""
	}
	return dir + "/"
}

// SetFilename sanitizes and stores name. Path components are stripped.
func (f *File) SetFilename(name string) {
	f.filename = common.SanitizeFileName(name)
}

// Filename returns the sanitized filename
func (f *File) Filename() string {
	return f.filename
}

// Directory returns the directory below the plugin directory, with a
// trailing slash when not empty
func (f *File) Directory() string {
	return f.directory
}

// BaseLocation returns the plugin directory
func (f *File) BaseLocation() string {
	return f.baseLocation
}

// RelativePath returns the path below the plugin directory. It doubles as
// the plugin identifier.
func (f *File) RelativePath() string {
	return f.directory + f.filename
}

// FullPath returns the absolute path of the file
func (f *File) FullPath() string {
	return filepath.Join(f.baseLocation, filepath.FromSlash(f.RelativePath()))
}

// MenuSlug returns the admin menu slug for the file
func (f *File) MenuSlug() string {
	return MenuSlugPrefix + f.filename
}

// EditURL returns the URL of the host's editor for the file
func (f *File) EditURL() string {
	file := url.QueryEscape(f.RelativePath())
	if admin := f.deps.Site().AdminURL; admin != "" {
		return admin + "/plugin-editor.php?file=" + file
	}
	return "/admin/plugin-editor?file=" + file
}

// Exists reports whether the file is present
func (f *File) Exists() (bool, error) {
	return f.deps.Reader.FileExists(f.FullPath())
}

func (f *File) now() time.Time {
	return f.deps.Now()
}

func (f *File) version() string {
	return f.now().Format("2006.01.02")
}

// write creates the file with the content produced by contentFn unless it
// already exists. contentFn reads through the unprivileged reader; only the
// write goes through the acquired filesystem. The returned filesystem is nil
// when nothing was written.
func (f *File) write(creds *system.Credentials, contentFn func(fs system.FileReader) (string, error)) (system.FileSystemManager, error) {
	full := f.FullPath()

	exists, err := f.deps.Reader.FileExists(full)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", full, err)
	}
	if exists {
		return nil, nil
	}

	fs, err := f.deps.Access.Acquire(creds)
	if err != nil {
		return nil, err
	}

	if err := fs.EnsureDirectory(filepath.Dir(full), "", system.DirMode); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", f.RelativePath(), err)
	}

	content, err := contentFn(f.deps.Reader)
	if err != nil {
		return nil, err
	}

	if err := fs.WriteFile(full, []byte(content), system.FileMode); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrWriteFailed, full, err)
	}

	f.deps.Logger.Info("Created managed file", "path", full)
	return fs, nil
}

func (f *File) registerAdminMenu(r MenuRegistrar, label string, create func(context.Context, *system.Credentials) error) {
	r.AddPluginsPage(label, f.MenuSlug(), func(ctx context.Context, creds *system.Credentials) (string, error) {
		if err := create(ctx, creds); err != nil {
			return "", err
		}
		return f.EditURL(), nil
	})
}

// EnsureSilently creates m without credentials and reports whether the file
// is present afterwards. Failures are logged, never returned.
func EnsureSilently(ctx context.Context, m Managed, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}
	if err := m.CreateFile(ctx, nil); err != nil {
		if errors.Is(err, system.ErrCredentialsRequired) {
			logger.Debug("Skipped creating managed file, credentials required", "path", m.FullPath())
		} else {
			logger.Warn("Failed to create managed file", "path", m.FullPath(), "error", err)
		}
		return false
	}
	return true
}
