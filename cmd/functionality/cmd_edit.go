package main

import (
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:       "edit [functions|styles]",
	Short:     "Create a managed file if needed and show where to edit it",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"functions", "styles"},
	RunE:      runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(nil)
	if err != nil {
		return err
	}

	target := "functions"
	if len(args) == 1 {
		target = args[0]
	}

	files, err := ctx.Targets(target)
	if err != nil {
		return err
	}
	return ctx.Edit(cmd.Context(), files[0])
}
