package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sheabunge/functionality/internal/cli"
	"github.com/sheabunge/functionality/internal/config"
	"github.com/sheabunge/functionality/pkg/version"
)

var (
	configPath     string
	optionsPath    string
	logLevel       string
	logFormat      string
	nonInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "functionality",
	Short: "Manage a site-specific functionality plugin",
	Long: `Creates and manages a site-specific plugin for code snippets, and
optionally a custom stylesheet, inside the site's plugin directory.

An existing legacy functions.php plugin is migrated into the new plugin
once, keeping its activation state.

Run without arguments to launch the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractiveMenu,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Launch interactive menu",
	RunE:  runInteractiveMenu,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Site settings file (default ~/.functionality.conf)")
	flags.StringVar(&optionsPath, "options", "", "Options file (default ~/.config/functionality/options.yaml)")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "Never prompt for input")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(menuCmd)
}

// newContext builds the command context, applying override to the loaded
// options
func newContext(override func(*config.Options)) (*cli.Context, error) {
	ctx, err := cli.NewContext(cli.ContextOptions{
		ConfigPath:     configPath,
		OptionsPath:    optionsPath,
		LogLevel:       logLevel,
		LogFormat:      logFormat,
		NonInteractive: nonInteractive,
		Override:       override,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize context: %w", err)
	}
	return ctx, nil
}

func runInteractiveMenu(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(nil)
	if err != nil {
		return err
	}

	ctx.Controller.Load(cmd.Context())
	return cli.NewMenu(ctx).Show(cmd.Context())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
