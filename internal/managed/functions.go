package managed

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sheabunge/functionality/internal/config"
	"github.com/sheabunge/functionality/internal/events"
	"github.com/sheabunge/functionality/internal/i18n"
	"github.com/sheabunge/functionality/internal/system"
)

// LegacyFilename is the single-file plugin older releases kept directly in
// the plugin directory. Its name is also its plugin identifier.
const LegacyFilename = "functions.php"

const (
	stylesOptInComment = "// uncomment the below line to enable CSS functionality"
	stylesOptInLine    = "// add_filter( 'functionality_enable_styles', '__return_true' );"
)

var stylesOptIn = regexp.MustCompile(`^\s*add_filter\(\s*['"]functionality_enable_styles['"]\s*,\s*['"]__return_true['"]\s*\)\s*;`)

// FunctionsFile is the site's functionality plugin
type FunctionsFile struct {
	File
	header   []config.HeaderField
	activate bool
}

// NewFunctionsFile builds the functions file from opts
func NewFunctionsFile(opts config.Options, deps Deps) *FunctionsFile {
	return &FunctionsFile{
		File:     newFile(opts.Filename, opts.Directory, deps),
		header:   opts.PluginHeader,
		activate: opts.Activate,
	}
}

// LegacyPath returns the location of the legacy single-file plugin
func (f *FunctionsFile) LegacyPath() string {
	return filepath.Join(f.baseLocation, LegacyFilename)
}

// PluginHeader returns the header fields of a new plugin file
func (f *FunctionsFile) PluginHeader() []config.HeaderField {
	site := f.deps.Site()
	defaults := []config.HeaderField{
		{Key: "Plugin Name", Value: site.Name},
		{Key: "Plugin URI", Value: site.URL},
		{Key: "Description", Value: f.deps.Translator.T(i18n.PluginDescription, site.Name)},
		{Key: "Author", Value: site.UserDisplayName},
		{Key: "Author URI", Value: site.UserURL},
		{Key: "Version", Value: f.version()},
		{Key: "License", Value: "GPL"},
	}
	return MergeHeader(defaults, f.header)
}

// DefaultContent returns the content of a new plugin file. An existing
// legacy plugin is carried over unchanged.
func (f *FunctionsFile) DefaultContent(fs system.FileReader) (string, error) {
	if legacy := f.LegacyPath(); legacy != f.FullPath() {
		isFile, err := fs.IsFile(legacy)
		if err != nil {
			return "", fmt.Errorf("failed to check legacy plugin: %w", err)
		}
		if isFile {
			data, err := fs.ReadFile(legacy)
			if err != nil {
				return "", fmt.Errorf("failed to read legacy plugin: %w", err)
			}
			if len(data) > 0 {
				return string(data), nil
			}
		}
	}

	var b strings.Builder
	b.WriteString("<?php\n\n")
	b.WriteString(BuildHeaderComment(f.PluginHeader()))
	b.WriteString("\n")
	b.WriteString(stylesOptInComment + "\n")
	b.WriteString(stylesOptInLine + "\n")
	return b.String(), nil
}

// CreateFile creates the plugin, activating it when the options ask for it
func (f *FunctionsFile) CreateFile(ctx context.Context, creds *system.Credentials) error {
	return f.Create(ctx, creds, f.activate)
}

// Create makes sure the plugin exists. A new file takes over the content
// and activation state of the legacy plugin, which is then removed. With
// activate set, a plugin without recorded state is activated.
func (f *FunctionsFile) Create(ctx context.Context, creds *system.Credentials, activate bool) error {
	id := f.RelativePath()

	exists, err := f.Exists()
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", f.FullPath(), err)
	}
	if exists {
		return f.ensureActive(id, activate)
	}

	fs, err := f.write(creds, f.DefaultContent)
	if err != nil {
		return err
	}
	if fs == nil {
		// created concurrently
		return f.ensureActive(id, activate)
	}

	f.deps.Events.Publish(ctx, events.PluginCreated, f.FullPath())

	activate, err = f.retireLegacy(fs, activate)
	if err != nil {
		return err
	}

	if activate {
		return f.ensureActive(id, true)
	}

	// Record the inactive state so later runs leave it alone
	if err := f.deps.Plugins.Deactivate(id); err != nil {
		return fmt.Errorf("failed to record plugin state: %w", err)
	}
	return nil
}

// retireLegacy deactivates and removes the legacy plugin after its content
// was copied. The returned flag is false when the legacy plugin was
// inactive, so the new plugin stays inactive too.
func (f *FunctionsFile) retireLegacy(fs system.FileSystemManager, activate bool) (bool, error) {
	legacy := f.LegacyPath()
	if legacy == f.FullPath() {
		return activate, nil
	}

	isFile, err := fs.IsFile(legacy)
	if err != nil {
		return activate, fmt.Errorf("failed to check legacy plugin: %w", err)
	}
	if !isFile {
		return activate, nil
	}

	active, err := f.deps.Plugins.IsActive(LegacyFilename)
	if err != nil {
		return activate, fmt.Errorf("failed to read legacy plugin state: %w", err)
	}

	if active {
		if err := f.deps.Plugins.Deactivate(LegacyFilename); err != nil {
			return activate, fmt.Errorf("failed to deactivate legacy plugin: %w", err)
		}
	} else {
		activate = false
	}

	if err := fs.RemoveFile(legacy); err != nil {
		f.deps.Logger.Warn("Failed to remove legacy plugin", "path", legacy, "error", err)
	} else {
		f.deps.Logger.Info("Migrated legacy plugin", "from", legacy, "to", f.FullPath())
	}

	return activate, nil
}

func (f *FunctionsFile) ensureActive(id string, activate bool) error {
	if !activate {
		return nil
	}

	known, err := f.deps.Plugins.Known(id)
	if err != nil {
		return fmt.Errorf("failed to read plugin state: %w", err)
	}
	if known {
		return nil
	}

	if err := f.deps.Plugins.Activate(id); err != nil {
		return fmt.Errorf("failed to activate %s: %w", id, err)
	}
	f.deps.Logger.Info("Activated plugin", "plugin", id)
	return nil
}

// StylesOptedIn reports whether the plugin file enables the stylesheet
// through an uncommented opt-in filter line
func (f *FunctionsFile) StylesOptedIn() bool {
	data, err := f.deps.Reader.ReadFile(f.FullPath())
	if err != nil {
		return false
	}
	return ContainsStylesOptIn(string(data))
}

// ContainsStylesOptIn reports whether content holds an active opt-in line
func ContainsStylesOptIn(content string) bool {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		if stylesOptIn.MatchString(scanner.Text()) {
			return true
		}
	}
	return false
}

// RegisterAdminMenu adds the edit page of the plugin. Visiting it creates
// the plugin with the same activation policy as CreateFile.
func (f *FunctionsFile) RegisterAdminMenu(r MenuRegistrar) {
	f.registerAdminMenu(r, f.deps.Translator.T(i18n.EditFunctions), f.CreateFile)
}
