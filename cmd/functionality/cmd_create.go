package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sheabunge/functionality/internal/config"
)

var (
	createSilent     bool
	createNoActivate bool
	createStyles     bool
)

var createCmd = &cobra.Command{
	Use:   "create [functions|styles|all]",
	Short: "Create the managed files",
	Long: `Create the functions plugin, the stylesheet or both if they do not exist.

Existing files are left untouched. When the plugin directory is not
writable you are asked for your password, unless --silent is given.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"functions", "styles", "all"},
	RunE:      runCreate,
}

func init() {
	createCmd.Flags().BoolVar(&createSilent, "silent", false, "Never ask for credentials")
	createCmd.Flags().BoolVar(&createNoActivate, "no-activate", false, "Do not activate a newly created plugin")
	createCmd.Flags().BoolVar(&createStyles, "enable-styles", false, "Enable the stylesheet for this run")

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(func(o *config.Options) {
		if createNoActivate {
			o.Activate = false
		}
		if createStyles {
			o.EnableStyles = true
		}
	})
	if err != nil {
		return err
	}

	target := "all"
	if len(args) == 1 {
		target = args[0]
	}

	files, err := ctx.Targets(target)
	if err != nil {
		return err
	}

	var failed int
	for _, f := range files {
		if err := ctx.CreateFile(cmd.Context(), f, createSilent); err != nil {
			ctx.UI.Errorf("%s: %v", f.RelativePath(), err)
			failed++
			continue
		}
		ctx.UI.Successf("%s is ready", f.FullPath())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be created", failed, len(files))
	}
	return nil
}
