package main

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run pre-flight checks",
	Long:  `Verify the plugin directory, write access and plugin state storage, and report a pending legacy migration.`,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, err := newContext(nil)
	if err != nil {
		return err
	}
	return ctx.Preflight()
}
