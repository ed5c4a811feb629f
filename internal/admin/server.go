// Package admin serves the administration pages of the managed files: a
// page per file that creates it on first visit, a read-only editor view and
// a websocket feed of lifecycle events.
package admin

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sheabunge/functionality/internal/assets"
	"github.com/sheabunge/functionality/internal/controller"
	"github.com/sheabunge/functionality/internal/events"
	"github.com/sheabunge/functionality/internal/i18n"
	"github.com/sheabunge/functionality/internal/logging"
	"github.com/sheabunge/functionality/internal/managed"
	"github.com/sheabunge/functionality/internal/system"
	"github.com/sheabunge/functionality/pkg/version"
)

// Config holds the collaborators of a Server
type Config struct {
	Controller *controller.Controller
	// Reader is used by the editor view
	Reader     system.FileReader
	Bus        *events.Bus
	Translator *i18n.Translator
	Logger     *slog.Logger
}

// Server is the admin HTTP server
type Server struct {
	ctrl        *controller.Controller
	reader      system.FileReader
	translator  *i18n.Translator
	logger      *slog.Logger
	menu        *Menu
	hub         *Hub
	unsubscribe func()
	engine      *gin.Engine
}

// NewServer registers the menus of the controller and builds the router
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Translator == nil {
		cfg.Translator = i18n.New("en")
	}
	if cfg.Reader == nil {
		cfg.Reader = system.NewFileSystem()
	}

	s := &Server{
		ctrl:        cfg.Controller,
		reader:      cfg.Reader,
		translator:  cfg.Translator,
		logger:      cfg.Logger,
		menu:        NewMenu(),
		hub:         NewHub(cfg.Logger),
		unsubscribe: func() {},
	}

	s.ctrl.RegisterMenus(s.menu)
	if cfg.Bus != nil {
		s.unsubscribe = cfg.Bus.Subscribe(s.hub.OnEvent)
	}

	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))
	r.Use(func(c *gin.Context) {
		c.Header("X-Functionality-Version", version.Short())
		c.Next()
	})
	r.SetHTMLTemplate(pageTemplates)

	admin := r.Group("/admin")
	{
		admin.GET("/menu", s.getMenu)
		admin.GET("/plugins/:slug", s.openPage)
		admin.POST("/plugins/:slug", s.openPage)
		admin.GET("/plugin-editor", s.editor)
		admin.GET("/events", s.hub.HandleWS)
	}

	r.GET("/styles", s.styles)

	return r
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Menu returns the registered admin pages
func (s *Server) Menu() *Menu {
	return s.menu
}

// Hub returns the websocket hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run serves on addr until ctx is done
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Admin server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	defer func() {
		s.unsubscribe()
		s.hub.Close()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) getMenu(c *gin.Context) {
	c.JSON(http.StatusOK, s.menu.Pages())
}

// openPage creates the file behind the page and redirects to its editor.
// Without write access it renders the credentials form; a POST carries the
// password entered there.
func (s *Server) openPage(c *gin.Context) {
	page, ok := s.menu.Page(c.Param("slug"))
	if !ok {
		c.HTML(http.StatusNotFound, "error", "Unknown page")
		return
	}

	var creds *system.Credentials
	if c.Request.Method == http.MethodPost {
		creds = &system.Credentials{Password: c.PostForm("password")}
	}

	target, err := page.Open(c.Request.Context(), creds)
	switch {
	case err == nil:
		status := http.StatusFound
		if creds != nil {
			status = http.StatusSeeOther
		}
		c.Redirect(status, target)
	case errors.Is(err, system.ErrInvalidCredentials):
		s.renderCredentials(c, http.StatusUnauthorized, page, s.translator.T(i18n.CredentialsInvalid))
	case errors.Is(err, system.ErrCredentialsRequired):
		s.renderCredentials(c, http.StatusOK, page, "")
	default:
		s.logger.Error("Failed to open admin page", slog.String("slug", page.Slug), logging.Error(err))
		c.HTML(http.StatusInternalServerError, "error", err.Error())
	}
}

func (s *Server) renderCredentials(c *gin.Context, status int, page Page, message string) {
	c.HTML(status, "credentials", credentialsPage{
		Lang:          s.translator.Language().String(),
		Title:         s.translator.T(i18n.CredentialsTitle),
		Prompt:        s.translator.T(i18n.CredentialsPrompt, page.Label),
		PasswordLabel: s.translator.T(i18n.Password),
		Submit:        s.translator.T(i18n.Proceed),
		Action:        page.URL,
		Error:         message,
	})
}

func (s *Server) managedFile(rel string) (managed.Managed, bool) {
	for _, f := range s.ctrl.Files() {
		if f.RelativePath() == rel {
			return f, true
		}
	}
	return nil, false
}

func (s *Server) editor(c *gin.Context) {
	file, ok := s.managedFile(c.Query("file"))
	if !ok {
		c.HTML(http.StatusNotFound, "error", "Not a managed file")
		return
	}

	data, err := s.reader.ReadFile(file.FullPath())
	if err != nil {
		c.HTML(http.StatusNotFound, "error", "File not created yet")
		return
	}

	source, err := highlight(file.Filename(), string(data))
	if err != nil {
		s.logger.Error("Failed to highlight file", logging.Path(file.FullPath()), logging.Error(err))
		c.HTML(http.StatusInternalServerError, "error", err.Error())
		return
	}

	c.HTML(http.StatusOK, "editor", editorPage{
		Lang:   s.translator.Language().String(),
		File:   file.RelativePath(),
		Source: source,
	})
}

// styles runs the stylesheet enqueue of one page render and returns the
// resulting link tags
func (s *Server) styles(c *gin.Context) {
	registry := assets.NewRegistry()
	s.ctrl.EnqueueStyles(registry)

	var buf bytes.Buffer
	if err := registry.Render(&buf); err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)))
	}
}
