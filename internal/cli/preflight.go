package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sheabunge/functionality/internal/managed"
	"github.com/sheabunge/functionality/internal/system"
)

// Preflight checks that the managed files can be created and reports what
// a first run would do
func (c *Context) Preflight() error {
	c.UI.Header("Pre-flight Check")

	checks := []func() error{
		c.checkPluginDir,
		c.checkWriteAccess,
		c.checkStateDir,
		c.checkLegacyPlugin,
	}

	var failed int
	for _, check := range checks {
		if err := check(); err != nil {
			c.UI.Error(err.Error())
			failed++
		}
	}

	c.UI.Separator()
	if failed > 0 {
		return fmt.Errorf("%d pre-flight checks failed", failed)
	}
	c.UI.Success("All pre-flight checks passed")
	return nil
}

// checkPluginDir verifies the plugin directory exists
func (c *Context) checkPluginDir() error {
	c.UI.Info("Checking plugin directory...")

	exists, err := c.Reader.DirectoryExists(c.Site.PluginDir)
	if err != nil {
		return fmt.Errorf("failed to check plugin directory: %w", err)
	}
	if !exists {
		c.UI.Info("Set PLUGIN_DIR in " + c.Config.FilePath())
		return fmt.Errorf("plugin directory %s does not exist", c.Site.PluginDir)
	}

	c.UI.Successf("  ✓ %s", c.Site.PluginDir)
	return nil
}

// checkWriteAccess reports how the plugin directory will be written
func (c *Context) checkWriteAccess() error {
	c.UI.Info("Checking write access...")

	fs, err := c.Access.Acquire(nil)
	switch {
	case errors.Is(err, system.ErrCredentialsRequired):
		c.UI.Warning("  Writing needs sudo with a password")
		c.UI.Info("  Files will be created when you run create or edit interactively")
		return nil
	case err != nil:
		return fmt.Errorf("failed to check write access: %w", err)
	}

	switch fs.(type) {
	case *system.SudoFileSystem:
		c.UI.Success("  ✓ Passwordless sudo is configured")
	default:
		c.UI.Success("  ✓ Plugin directory is writable")
	}
	return nil
}

// checkStateDir makes sure plugin activation state can be recorded
func (c *Context) checkStateDir() error {
	c.UI.Info("Checking plugin state directory...")

	dir := c.Plugins.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create plugin state directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("plugin state directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	c.UI.Successf("  ✓ %s", dir)
	return nil
}

// checkLegacyPlugin reports a pending migration
func (c *Context) checkLegacyPlugin() error {
	c.UI.Info("Checking for a legacy plugin...")

	functions := c.Controller.Functions()
	legacy := functions.LegacyPath()
	if legacy == functions.FullPath() {
		c.UI.Info("  - Plugin lives at the legacy location, nothing to migrate")
		return nil
	}

	isFile, err := c.Reader.IsFile(legacy)
	if err != nil {
		return fmt.Errorf("failed to check legacy plugin: %w", err)
	}
	if !isFile {
		c.UI.Info("  - No legacy plugin found")
		return nil
	}

	exists, err := functions.Exists()
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", functions.FullPath(), err)
	}
	if exists {
		c.UI.Warningf("  %s exists next to %s and will not be migrated", managed.LegacyFilename, functions.RelativePath())
		return nil
	}

	active, err := c.Plugins.IsActive(managed.LegacyFilename)
	if err != nil {
		return fmt.Errorf("failed to read legacy plugin state: %w", err)
	}
	state := "inactive, the new plugin will stay inactive"
	if active {
		state = "active, the new plugin will be activated"
	}
	c.UI.Infof("  - %s will be moved to %s (%s)", managed.LegacyFilename, filepath.ToSlash(functions.RelativePath()), state)
	return nil
}
