package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sheabunge/functionality/internal/admin"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin pages",
	Long: `Serve the admin pages of the managed files.

Missing files are created on start when no credentials are needed. Opening
a file's page creates it, asking for the password in the browser when the
plugin directory is not writable. With --watch, edits to the managed files
are pushed to open editor pages.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "Listen address")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "Watch the managed files for changes")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := newContext(nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c.Controller.Load(ctx)

	if serveWatch {
		stopWatcher := startWatcher(ctx, c.Controller.Files(), c)
		defer stopWatcher()
	}

	if logLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := admin.NewServer(admin.Config{
		Controller: c.Controller,
		Reader:     c.Reader,
		Bus:        c.Bus,
		Translator: c.Translator,
		Logger:     c.Logger,
	})

	c.UI.Infof("Admin pages at http://%s/admin/menu", serveAddr)
	return server.Run(ctx, serveAddr)
}
