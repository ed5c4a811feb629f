package managed

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sheabunge/functionality/internal/config"
	"github.com/sheabunge/functionality/internal/events"
	"github.com/sheabunge/functionality/internal/plugins"
	"github.com/sheabunge/functionality/internal/system"
)

const pluginDir = "/srv/www/wp-content/plugins"

var testNow = time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)

type published struct {
	name string
	path string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, name, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{name: name, path: path})
}

// failingHost wraps a Registry and fails selected operations
type failingHost struct {
	*plugins.Registry
	deactivateErr error
}

func (h *failingHost) Deactivate(id string) error {
	if h.deactivateErr != nil {
		return h.deactivateErr
	}
	return h.Registry.Deactivate(id)
}

// noisyFS prepends elevation diagnostics to everything it reads, the way a
// privileged reader merging stderr into the content would
type noisyFS struct {
	*system.MockFileSystem
}

func (n noisyFS) ReadFile(path string) ([]byte, error) {
	data, err := n.MockFileSystem.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return append([]byte("sudo: unable to resolve host minipc\n"), data...), nil
}

type fixture struct {
	fs       *system.MockFileSystem
	access   *system.MockAccess
	registry *plugins.Registry
	events   *recordingPublisher
	deps     Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fs := system.NewMockFileSystem()
	fs.AddDir(pluginDir)

	f := &fixture{
		fs:       fs,
		access:   &system.MockAccess{FS: fs},
		registry: plugins.NewRegistry(t.TempDir()),
		events:   &recordingPublisher{},
	}
	f.deps = Deps{
		Reader:  fs,
		Access:  f.access,
		Plugins: f.registry,
		Events:  f.events,
		Site: func() config.Site {
			return config.Site{
				Name:            "Example Blog",
				URL:             "https://example.com",
				UserDisplayName: "Jane Admin",
				UserURL:         "https://example.com/jane",
				PluginDir:       pluginDir,
				PluginsURL:      "https://example.com/wp-content/plugins",
			}
		},
		Now: func() time.Time { return testNow },
	}
	return f
}

func (f *fixture) functions(opts config.Options) *FunctionsFile {
	return NewFunctionsFile(opts, f.deps)
}

func legacyPath() string {
	return filepath.Join(pluginDir, LegacyFilename)
}

func TestSetFilenameSanitizes(t *testing.T) {
	fx := newFixture(t)
	file := fx.functions(config.DefaultOptions())

	file.SetFilename("../../evil.php")
	require.Equal(t, "evil.php", file.Filename())
	require.Equal(t, filepath.Join(pluginDir, "functions", "evil.php"), file.FullPath())

	file.SetFilename("")
	require.Equal(t, "unnamed-file", file.Filename())
	require.NotContains(t, file.RelativePath(), "..")
}

func TestFilePaths(t *testing.T) {
	fx := newFixture(t)

	tests := []struct {
		name     string
		dir      string
		rel      string
		full     string
		editURL  string
		menuSlug string
	}{
		{"default directory", "functions", "functions/functions.php", pluginDir + "/functions/functions.php", "/admin/plugin-editor?file=functions%2Ffunctions.php", "functionality-functions.php"},
		{"trailing slashes", "/site/", "site/functions.php", pluginDir + "/site/functions.php", "/admin/plugin-editor?file=site%2Ffunctions.php", "functionality-functions.php"},
		{"plugin root", "", "functions.php", pluginDir + "/functions.php", "/admin/plugin-editor?file=functions.php", "functionality-functions.php"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := config.DefaultOptions()
			opts.Directory = tt.dir
			file := fx.functions(opts)

			require.Equal(t, tt.rel, file.RelativePath())
			require.Equal(t, tt.full, file.FullPath())
			require.Equal(t, tt.editURL, file.EditURL())
			require.Equal(t, tt.menuSlug, file.MenuSlug())
		})
	}
}

func TestEditURLWithAdminURL(t *testing.T) {
	fx := newFixture(t)
	site := fx.deps.Site()
	site.AdminURL = "https://example.com/wp-admin"
	fx.deps.Site = func() config.Site { return site }

	file := fx.functions(config.DefaultOptions())
	require.Equal(t, "https://example.com/wp-admin/plugin-editor.php?file=functions%2Ffunctions.php", file.EditURL())
}

func TestCreateWithoutLegacy(t *testing.T) {
	fx := newFixture(t)
	file := fx.functions(config.DefaultOptions())

	require.NoError(t, file.CreateFile(context.Background(), nil))

	content, ok := fx.fs.Content(file.FullPath())
	require.True(t, ok)
	require.True(t, strings.HasPrefix(content, "<?php\n\n/*\nPlugin Name: Example Blog\n"), content)
	require.Contains(t, content, "Plugin URI:  https://example.com\n")
	require.Contains(t, content, "Description: A site-specific functionality plugin for Example Blog")
	require.Contains(t, content, "Author:      Jane Admin\n")
	require.Contains(t, content, "Version:     2024.03.05\n")
	require.Contains(t, content, "License:     GPL\n*/\n")
	require.True(t, strings.HasSuffix(content, "// add_filter( 'functionality_enable_styles', '__return_true' );\n"), content)
	require.False(t, ContainsStylesOptIn(content))

	active, err := fx.registry.IsActive("functions/functions.php")
	require.NoError(t, err)
	require.True(t, active)

	require.Equal(t, []published{{events.PluginCreated, file.FullPath()}}, fx.events.events)
}

func TestCreateHeaderOverrides(t *testing.T) {
	fx := newFixture(t)
	opts := config.DefaultOptions()
	opts.PluginHeader = []config.HeaderField{
		{Key: "License", Value: "MIT"},
		{Key: "Author URI", Value: ""},
		{Key: "Text Domain", Value: "example"},
	}
	file := fx.functions(opts)

	require.NoError(t, file.CreateFile(context.Background(), nil))

	content, _ := fx.fs.Content(file.FullPath())
	require.Contains(t, content, "License:     MIT\nText Domain: example\n*/\n")
	require.NotContains(t, content, "Author URI")
}

func TestCreateIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	file := fx.functions(config.DefaultOptions())
	fx.fs.AddFile(file.FullPath(), "<?php // mine")

	for i := 0; i < 2; i++ {
		require.NoError(t, file.CreateFile(context.Background(), nil))
	}

	content, _ := fx.fs.Content(file.FullPath())
	require.Equal(t, "<?php // mine", content)
	require.Zero(t, fx.fs.WriteCalls)
	require.Zero(t, fx.access.Calls)
	require.Empty(t, fx.events.events)

	// an untracked existing plugin is activated once
	active, err := fx.registry.IsActive(file.RelativePath())
	require.NoError(t, err)
	require.True(t, active)
}

func TestCreateExistingKeepsRecordedState(t *testing.T) {
	fx := newFixture(t)
	file := fx.functions(config.DefaultOptions())
	fx.fs.AddFile(file.FullPath(), "<?php")
	require.NoError(t, fx.registry.Deactivate(file.RelativePath()))

	require.NoError(t, file.Create(context.Background(), nil, true))

	active, err := fx.registry.IsActive(file.RelativePath())
	require.NoError(t, err)
	require.False(t, active)
}

func TestMigrateActiveLegacy(t *testing.T) {
	fx := newFixture(t)
	fx.fs.AddFile(legacyPath(), "X")
	require.NoError(t, fx.registry.Activate(LegacyFilename))
	file := fx.functions(config.DefaultOptions())

	require.NoError(t, file.Create(context.Background(), nil, true))

	content, ok := fx.fs.Content(file.FullPath())
	require.True(t, ok)
	require.Equal(t, "X", content)

	_, ok = fx.fs.Content(legacyPath())
	require.False(t, ok, "legacy plugin should be removed")

	legacyActive, err := fx.registry.IsActive(LegacyFilename)
	require.NoError(t, err)
	require.False(t, legacyActive)

	active, err := fx.registry.IsActive(file.RelativePath())
	require.NoError(t, err)
	require.True(t, active)
}

func TestMigrateReadsLegacyWithoutElevation(t *testing.T) {
	fx := newFixture(t)
	fx.access.FS = noisyFS{fx.fs}
	fx.fs.AddFile(legacyPath(), "<?php\n// my snippets\n")
	require.NoError(t, fx.registry.Activate(LegacyFilename))
	file := fx.functions(config.DefaultOptions())

	require.NoError(t, file.Create(context.Background(), nil, true))

	content, ok := fx.fs.Content(file.FullPath())
	require.True(t, ok)
	require.Equal(t, "<?php\n// my snippets\n", content)

	_, ok = fx.fs.Content(legacyPath())
	require.False(t, ok)
}

func TestMigrateInactiveLegacyStaysInactive(t *testing.T) {
	fx := newFixture(t)
	fx.fs.AddFile(legacyPath(), "<?php\n// snippets\n")
	file := fx.functions(config.DefaultOptions())

	require.NoError(t, file.Create(context.Background(), nil, true))

	content, _ := fx.fs.Content(file.FullPath())
	require.Equal(t, "<?php\n// snippets\n", content)

	active, err := fx.registry.IsActive(file.RelativePath())
	require.NoError(t, err)
	require.False(t, active)

	// later runs must not turn it on either
	require.NoError(t, file.Create(context.Background(), nil, true))
	active, err = fx.registry.IsActive(file.RelativePath())
	require.NoError(t, err)
	require.False(t, active)
}

func TestCreateWithoutActivation(t *testing.T) {
	fx := newFixture(t)
	opts := config.DefaultOptions()
	opts.Activate = false
	file := fx.functions(opts)

	require.NoError(t, file.CreateFile(context.Background(), nil))

	known, err := fx.registry.Known(file.RelativePath())
	require.NoError(t, err)
	require.True(t, known)

	active, err := fx.registry.IsActive(file.RelativePath())
	require.NoError(t, err)
	require.False(t, active)
}

func TestWriteFailureKeepsLegacy(t *testing.T) {
	fx := newFixture(t)
	fx.fs.AddFile(legacyPath(), "X")
	require.NoError(t, fx.registry.Activate(LegacyFilename))
	fx.fs.WriteErr = errors.New("disk full")
	file := fx.functions(config.DefaultOptions())

	err := file.Create(context.Background(), nil, true)
	require.ErrorIs(t, err, ErrWriteFailed)

	content, ok := fx.fs.Content(legacyPath())
	require.True(t, ok)
	require.Equal(t, "X", content)

	legacyActive, err := fx.registry.IsActive(LegacyFilename)
	require.NoError(t, err)
	require.True(t, legacyActive)

	require.Zero(t, fx.fs.RemoveCalls)
	require.Empty(t, fx.events.events)
}

func TestDeactivateFailureKeepsLegacy(t *testing.T) {
	fx := newFixture(t)
	fx.fs.AddFile(legacyPath(), "X")
	require.NoError(t, fx.registry.Activate(LegacyFilename))
	fx.deps.Plugins = &failingHost{Registry: fx.registry, deactivateErr: errors.New("host refused")}
	file := fx.functions(config.DefaultOptions())

	err := file.Create(context.Background(), nil, true)
	require.Error(t, err)

	_, ok := fx.fs.Content(legacyPath())
	require.True(t, ok, "legacy plugin must survive a failed deactivation")
	require.Zero(t, fx.fs.RemoveCalls)
}

func TestLegacyRemoveFailureIsNotFatal(t *testing.T) {
	fx := newFixture(t)
	fx.fs.AddFile(legacyPath(), "X")
	require.NoError(t, fx.registry.Activate(LegacyFilename))
	fx.fs.RemoveErr = errors.New("read-only")
	file := fx.functions(config.DefaultOptions())

	require.NoError(t, file.Create(context.Background(), nil, true))

	content, _ := fx.fs.Content(file.FullPath())
	require.Equal(t, "X", content)

	active, err := fx.registry.IsActive(file.RelativePath())
	require.NoError(t, err)
	require.True(t, active)
}

func TestLegacyPathAsTarget(t *testing.T) {
	fx := newFixture(t)
	opts := config.DefaultOptions()
	opts.Directory = ""
	file := fx.functions(opts)
	require.Equal(t, legacyPath(), file.FullPath())

	require.NoError(t, file.CreateFile(context.Background(), nil))

	content, _ := fx.fs.Content(file.FullPath())
	require.True(t, strings.HasPrefix(content, "<?php\n\n/*\n"))
	require.Zero(t, fx.fs.RemoveCalls)
}

func TestCreateCredentials(t *testing.T) {
	fx := newFixture(t)
	fx.access.RequireCredentials = true
	fx.access.Password = "secret"
	file := fx.functions(config.DefaultOptions())
	ctx := context.Background()

	err := file.CreateFile(ctx, nil)
	require.ErrorIs(t, err, system.ErrCredentialsRequired)
	require.False(t, EnsureSilently(ctx, file, nil))

	err = file.CreateFile(ctx, &system.Credentials{Password: "wrong"})
	require.ErrorIs(t, err, system.ErrInvalidCredentials)

	_, ok := fx.fs.Content(file.FullPath())
	require.False(t, ok, "no partial write without access")

	require.NoError(t, file.CreateFile(ctx, &system.Credentials{Password: "secret"}))
	require.True(t, EnsureSilently(ctx, file, nil))
}

func TestContainsStylesOptIn(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"commented", "<?php\n// add_filter( 'functionality_enable_styles', '__return_true' );\n", false},
		{"uncommented", "<?php\nadd_filter( 'functionality_enable_styles', '__return_true' );\n", true},
		{"compact", "<?php\n\tadd_filter(\"functionality_enable_styles\",\"__return_true\");", true},
		{"other filter", "<?php\nadd_filter( 'the_content', '__return_true' );\n", false},
		{"returns false", "<?php\nadd_filter( 'functionality_enable_styles', '__return_false' );\n", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ContainsStylesOptIn(tt.content))
		})
	}
}

func TestStylesOptedIn(t *testing.T) {
	fx := newFixture(t)
	file := fx.functions(config.DefaultOptions())
	require.False(t, file.StylesOptedIn(), "missing file")

	fx.fs.AddFile(file.FullPath(), "<?php\nadd_filter( 'functionality_enable_styles', '__return_true' );\n")
	require.True(t, file.StylesOptedIn())
}

type recordedPage struct {
	label string
	slug  string
	open  OpenFunc
}

type recordingRegistrar struct {
	pages []recordedPage
}

func (r *recordingRegistrar) AddPluginsPage(label, slug string, open OpenFunc) {
	r.pages = append(r.pages, recordedPage{label: label, slug: slug, open: open})
}

func TestRegisterAdminMenu(t *testing.T) {
	fx := newFixture(t)
	fx.access.RequireCredentials = true
	fx.access.Password = "secret"
	file := fx.functions(config.DefaultOptions())

	reg := &recordingRegistrar{}
	file.RegisterAdminMenu(reg)
	require.Len(t, reg.pages, 1)
	require.Equal(t, "Edit Functions", reg.pages[0].label)
	require.Equal(t, "functionality-functions.php", reg.pages[0].slug)

	ctx := context.Background()
	_, err := reg.pages[0].open(ctx, nil)
	require.ErrorIs(t, err, system.ErrCredentialsRequired)

	url, err := reg.pages[0].open(ctx, &system.Credentials{Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, file.EditURL(), url)

	_, ok := fx.fs.Content(file.FullPath())
	require.True(t, ok)
}

func TestAdminMenuHonoursActivateOption(t *testing.T) {
	fx := newFixture(t)
	opts := config.DefaultOptions()
	opts.Activate = false
	file := fx.functions(opts)

	reg := &recordingRegistrar{}
	file.RegisterAdminMenu(reg)
	require.Len(t, reg.pages, 1)

	_, err := reg.pages[0].open(context.Background(), nil)
	require.NoError(t, err)

	active, err := fx.registry.IsActive(file.RelativePath())
	require.NoError(t, err)
	require.False(t, active)
}
