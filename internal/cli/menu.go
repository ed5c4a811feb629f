package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sheabunge/functionality/internal/i18n"
	"github.com/sheabunge/functionality/internal/managed"
)

// ErrExit is returned when the user chooses to exit the menu
var ErrExit = errors.New("exit")

// Menu provides an interactive menu interface
type Menu struct {
	ctx *Context
}

// NewMenu creates a new Menu instance
func NewMenu(ctx *Context) *Menu {
	return &Menu{ctx: ctx}
}

// clearScreen clears the terminal screen using ANSI escape codes
func (m *Menu) clearScreen() {
	fmt.Fprint(m.ctx.UI.Writer(), "\033[2J\033[H")
}

// Show displays the main menu and handles user input
func (m *Menu) Show(ctx context.Context) error {
	for {
		m.clearScreen()
		m.displayMenu()

		choice, err := m.ctx.UI.PromptInput("Enter your choice", "")
		if err != nil {
			return err
		}

		if err := m.handleChoice(ctx, strings.ToUpper(strings.TrimSpace(choice))); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			m.ctx.UI.Error(err.Error())
		}

		if _, err := m.ctx.UI.PromptInput("Press Enter to return to menu...", ""); err != nil {
			return err
		}
	}
}

// displayMenu displays the main menu
func (m *Menu) displayMenu() {
	u := m.ctx.UI
	u.Header("Functionality")

	u.Infof("Site: %s", m.ctx.Site.Name)
	u.Infof("Plugin directory: %s", m.ctx.Site.PluginDir)
	u.Print("")

	u.Separator()
	u.Option("F", m.ctx.Translator.T(i18n.EditFunctions))
	if m.ctx.Controller.Styles() != nil {
		u.Option("C", m.ctx.Translator.T(i18n.EditStyles))
	}
	u.Option("A", "Create all missing files")
	u.Separator()
	u.Option("S", "Show status")
	u.Option("H", "Help")
	u.Option("X", "Exit")
	u.Print("")
}

// handleChoice processes the user's menu choice
func (m *Menu) handleChoice(ctx context.Context, choice string) error {
	switch choice {
	case "F":
		return m.ctx.Edit(ctx, m.ctx.Controller.Functions())
	case "C":
		if m.ctx.Controller.Styles() == nil {
			return ErrStylesDisabled
		}
		return m.ctx.Edit(ctx, m.ctx.Controller.Styles())
	case "A":
		return m.createAll(ctx)
	case "S":
		return m.ctx.PrintStatus()
	case "H":
		m.showHelp()
		return nil
	case "X":
		return ErrExit
	default:
		return fmt.Errorf("invalid choice: %s", choice)
	}
}

func (m *Menu) createAll(ctx context.Context) error {
	var failed []string
	for _, f := range m.ctx.Controller.Files() {
		if err := m.ctx.CreateFile(ctx, f, false); err != nil {
			m.ctx.UI.Errorf("%s: %v", f.RelativePath(), err)
			failed = append(failed, f.RelativePath())
			continue
		}
		m.ctx.UI.Successf("%s is ready", f.RelativePath())
	}
	if len(failed) > 0 {
		return fmt.Errorf("could not create %s", strings.Join(failed, ", "))
	}
	return nil
}

// showHelp displays help information
func (m *Menu) showHelp() {
	m.ctx.UI.Header("Help")
	m.ctx.UI.Print(helpText(m.ctx.Controller.Functions()))
}

func helpText(functions *managed.FunctionsFile) string {
	return fmt.Sprintf(`
Functionality keeps a site-specific plugin for your code snippets in
%s
instead of the theme's functions.php. The file is created the first time
it is needed and activated as a plugin.

An existing %s in the plugin directory is moved into the new plugin once.
An active legacy plugin is replaced by an active new one; an inactive one
stays inactive.

To manage a custom stylesheet as well, set enable_styles in the options
file or uncomment this line in the plugin:

  add_filter( 'functionality_enable_styles', '__return_true' );

COMMAND-LINE MODE:

    functionality create [functions|styles|all]
    functionality edit [functions|styles]
    functionality status
    functionality serve
`, functions.FullPath(), managed.LegacyFilename)
}
