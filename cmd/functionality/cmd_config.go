package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sheabunge/functionality/internal/config"
	"github.com/sheabunge/functionality/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change the site settings",
	Long: `Reads and changes the site settings file. Known settings:

  SITE_NAME, SITE_URL, USER_DISPLAY_NAME, USER_URL, PLUGIN_DIR,
  PLUGINS_URL, ADMIN_URL, MARKER_DIR, LOCALE, CONFIG_VERSION`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting with its effective value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.New(configPath)
		if err := cfg.Load(); err != nil {
			return err
		}

		stored := cfg.GetAll()
		pairs := make([][2]string, 0, len(config.Keys))
		for _, key := range config.Keys {
			value := cfg.GetOrDefault(key, "")
			if _, ok := stored[key]; !ok && value != "" {
				value += " (default)"
			}
			pairs = append(pairs, [2]string{key, value})
		}

		out := ui.NewWithWriter(cmd.OutOrStdout())
		out.Header("Settings: " + cfg.FilePath())
		out.KeyValues(pairs)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the effective value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.IsKnownKey(args[0]) {
			return fmt.Errorf("%w: %s", config.ErrUnknownKey, args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.New(configPath).GetOrDefault(args[0], ""))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.New(configPath)
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			ui.NewWithWriter(cmd.ErrOrStderr()).Warningf("Saved, but the settings are not valid yet: %v", err)
		}
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset KEY",
	Short: "Remove a setting so its default applies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.New(configPath).Delete(args[0])
	},
}

func init() {
	configCmd.AddCommand(configListCmd, configGetCmd, configSetCmd, configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}
