// Package controller wires the managed files together according to the
// loaded options.
package controller

import (
	"context"
	"log/slog"

	"github.com/sheabunge/functionality/internal/config"
	"github.com/sheabunge/functionality/internal/managed"
)

// Controller owns the functions file and, when styles are enabled, the
// stylesheet. The feature set is fixed when it is created.
type Controller struct {
	opts          config.Options
	logger        *slog.Logger
	functions     *managed.FunctionsFile
	styles        *managed.StylesFile
	stylesEnabled bool
}

// New builds the managed files. Styles are enabled by the EnableStyles
// option or by an opt-in line in an existing functions file.
func New(opts config.Options, deps managed.Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		opts:      opts,
		logger:    logger,
		functions: managed.NewFunctionsFile(opts, deps),
	}

	c.stylesEnabled = opts.EnableStyles || c.functions.StylesOptedIn()
	if c.stylesEnabled {
		c.styles = managed.NewStylesFile(opts, deps)
	}

	logger.Debug("Controller loaded",
		"functions", c.functions.FullPath(),
		"styles_enabled", c.stylesEnabled,
		"enqueue_styles", opts.EnqueueStyles)

	return c
}

// Functions returns the functions file
func (c *Controller) Functions() *managed.FunctionsFile {
	return c.functions
}

// Styles returns the stylesheet, or nil when styles are disabled
func (c *Controller) Styles() *managed.StylesFile {
	return c.styles
}

// StylesEnabled reports whether the stylesheet is managed
func (c *Controller) StylesEnabled() bool {
	return c.stylesEnabled
}

// Files returns every managed file, functions first
func (c *Controller) Files() []managed.Managed {
	files := []managed.Managed{c.functions}
	if c.styles != nil {
		files = append(files, c.styles)
	}
	return files
}

// Load creates missing files without asking for credentials. Files that
// cannot be created now are retried when their admin page is opened.
func (c *Controller) Load(ctx context.Context) {
	for _, f := range c.Files() {
		managed.EnsureSilently(ctx, f, c.logger)
	}
}

// RegisterMenus adds one admin page per managed file
func (c *Controller) RegisterMenus(r managed.MenuRegistrar) {
	c.functions.RegisterAdminMenu(r)
	if c.styles != nil {
		c.styles.RegisterAdminMenu(r)
	}
}

// EnqueueStyles adds the stylesheet to a page render and reports whether it
// did
func (c *Controller) EnqueueStyles(r managed.StyleEnqueuer) bool {
	if c.styles == nil || !c.opts.EnqueueStyles {
		return false
	}
	c.styles.EnqueueStyle(r)
	return true
}
