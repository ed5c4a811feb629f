// Package cli provides the command-line interface layer of the tool: it
// builds the shared collaborators once, creates the managed files on request
// and drives the interactive menu.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sheabunge/functionality/internal/config"
	"github.com/sheabunge/functionality/internal/controller"
	"github.com/sheabunge/functionality/internal/events"
	"github.com/sheabunge/functionality/internal/i18n"
	"github.com/sheabunge/functionality/internal/logging"
	"github.com/sheabunge/functionality/internal/managed"
	"github.com/sheabunge/functionality/internal/plugins"
	"github.com/sheabunge/functionality/internal/system"
	"github.com/sheabunge/functionality/internal/ui"
)

// Context holds all dependencies needed by the commands
type Context struct {
	Config     *config.Config
	Options    config.Options
	Site       config.Site
	UI         *ui.UI
	Logger     *slog.Logger
	Translator *i18n.Translator
	Plugins    *plugins.Registry
	Bus        *events.Bus
	Access     system.Acquirer
	Reader     system.FileReader
	Controller *controller.Controller
	// AskPassword asks for the password used to gain write access
	AskPassword func(prompt string) (string, error)
}

// ContextOptions controls how a Context is built
type ContextOptions struct {
	ConfigPath     string
	OptionsPath    string
	LogLevel       string
	LogFormat      string
	LogOutput      io.Writer
	NonInteractive bool
	// Override is applied to the loaded options, after files and
	// environment
	Override func(*config.Options)
}

// NewContext loads settings and options and wires every collaborator
func NewContext(o ContextOptions) (*Context, error) {
	if o.LogLevel == "" {
		o.LogLevel = "warn"
	}
	if o.LogOutput == nil {
		o.LogOutput = os.Stderr
	}

	logger, err := logging.New(o.LogLevel, o.LogFormat, o.LogOutput)
	if err != nil {
		return nil, err
	}

	cfg := config.New(o.ConfigPath)
	if err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg.FilePath(), err)
	}

	opts, err := config.LoadOptions(o.OptionsPath)
	if err != nil {
		return nil, err
	}
	if o.Override != nil {
		o.Override(&opts)
		if err := opts.Validate(); err != nil {
			return nil, err
		}
	}

	site := cfg.Site()
	uiInstance := ui.New()
	uiInstance.SetNonInteractive(o.NonInteractive)

	reader := system.NewFileSystem()
	access := system.NewLocalAccess(site.PluginDir, system.NewCommandRunner())

	return Assemble(Context{
		Config:      cfg,
		Options:     opts,
		Site:        site,
		UI:          uiInstance,
		Logger:      logger,
		Plugins:     plugins.NewRegistry(cfg.MarkerDir()),
		Access:      access,
		Reader:      reader,
		AskPassword: uiInstance.PromptPassword,
	}), nil
}

// Assemble fills the derived collaborators of c: translator, event bus and
// controller
func Assemble(c Context) *Context {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Translator == nil {
		c.Translator = i18n.New(c.Site.Locale)
	}
	if c.Bus == nil {
		c.Bus = events.NewBus(events.WithLogger(c.Logger))
	}
	if c.UI == nil {
		c.UI = ui.New()
	}
	if c.AskPassword == nil {
		c.AskPassword = c.UI.PromptPassword
	}

	site := c.Site
	c.Controller = controller.New(c.Options, managed.Deps{
		Reader:     c.Reader,
		Access:     c.Access,
		Plugins:    c.Plugins,
		Events:     c.Bus,
		Site:       func() config.Site { return site },
		Translator: c.Translator,
		Logger:     c.Logger,
	})

	return &c
}
