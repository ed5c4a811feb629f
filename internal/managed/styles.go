package managed

import (
	"context"
	"strings"

	"github.com/sheabunge/functionality/internal/config"
	"github.com/sheabunge/functionality/internal/events"
	"github.com/sheabunge/functionality/internal/i18n"
	"github.com/sheabunge/functionality/internal/system"
)

// StyleEnqueuer collects stylesheets to be rendered on the public site
type StyleEnqueuer interface {
	EnqueueStyle(handle, src string, deps []string, version string)
}

// StylesFile is the site's custom stylesheet
type StylesFile struct {
	File
	header []config.HeaderField
}

// NewStylesFile builds the stylesheet from opts
func NewStylesFile(opts config.Options, deps Deps) *StylesFile {
	return &StylesFile{
		File:   newFile(opts.CSSFilename, opts.Directory, deps),
		header: opts.CSSHeader,
	}
}

// FileHeader returns the header fields of a new stylesheet
func (s *StylesFile) FileHeader() []config.HeaderField {
	site := s.deps.Site()
	defaults := []config.HeaderField{
		{Key: "Site Name", Value: site.Name},
		{Key: "Site URI", Value: site.URL},
		{Key: "Author", Value: site.UserDisplayName},
		{Key: "Author URI", Value: site.UserURL},
		{Key: "Version", Value: s.version()},
		{Key: "License", Value: "GPL"},
	}
	return MergeHeader(defaults, s.header)
}

// DefaultContent returns the content of a new stylesheet
func (s *StylesFile) DefaultContent() string {
	return "\n" + BuildHeaderComment(s.FileHeader()) + "\n"
}

// CreateFile creates the stylesheet if it does not exist
func (s *StylesFile) CreateFile(ctx context.Context, creds *system.Credentials) error {
	fs, err := s.write(creds, func(system.FileReader) (string, error) {
		return s.DefaultContent(), nil
	})
	if err != nil {
		return err
	}
	if fs != nil {
		s.deps.Events.Publish(ctx, events.StylesCreated, s.FullPath())
	}
	return nil
}

// StyleHandle returns the asset handle of the stylesheet
func (s *StylesFile) StyleHandle() string {
	return MenuSlugPrefix + strings.TrimSuffix(s.filename, ".css")
}

// URL returns the public URL of the stylesheet
func (s *StylesFile) URL() string {
	return s.deps.Site().PluginsURL + "/" + s.RelativePath()
}

// EnqueueStyle registers the stylesheet with r, versioned by today's date
func (s *StylesFile) EnqueueStyle(r StyleEnqueuer, deps ...string) {
	r.EnqueueStyle(s.StyleHandle(), s.URL(), deps, s.version())
}

// RegisterAdminMenu adds the edit page of the stylesheet
func (s *StylesFile) RegisterAdminMenu(r MenuRegistrar) {
	s.registerAdminMenu(r, s.deps.Translator.T(i18n.EditStyles), s.CreateFile)
}
