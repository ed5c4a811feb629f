// Package assets collects the stylesheets enqueued while rendering a page
// and prints them as link tags.
package assets

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
)

// Style is an enqueued stylesheet
type Style struct {
	Handle  string
	Src     string
	Deps    []string
	Version string
}

// URL returns the source with the version appended as a cache buster
func (s Style) URL() string {
	if s.Version == "" {
		return s.Src
	}
	sep := "?"
	if strings.Contains(s.Src, "?") {
		sep = "&"
	}
	return s.Src + sep + "ver=" + s.Version
}

var linkTemplate = template.Must(template.New("styles").Parse(
	`{{range .}}<link rel="stylesheet" id="{{.Handle}}-css" href="{{.URL}}" media="all" />
{{end}}`))

// Registry holds the stylesheets of one page render
type Registry struct {
	mu     sync.Mutex
	styles map[string]Style
	order  []string
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{styles: make(map[string]Style)}
}

// EnqueueStyle adds a stylesheet. A handle that is already enqueued keeps
// its first registration.
func (r *Registry) EnqueueStyle(handle, src string, deps []string, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.styles[handle]; ok {
		return
	}
	r.styles[handle] = Style{
		Handle:  handle,
		Src:     src,
		Deps:    append([]string(nil), deps...),
		Version: version,
	}
	r.order = append(r.order, handle)
}

// Styles returns the printable stylesheets with dependencies first. A style
// with a dependency that was never enqueued is left out, as is every style
// on a dependency cycle.
func (r *Registry) Styles() []Style {
	r.mu.Lock()
	defer r.mu.Unlock()

	const (
		visiting = iota + 1
		done
		skipped
	)
	state := make(map[string]int, len(r.styles))
	var out []Style

	var visit func(handle string) bool
	visit = func(handle string) bool {
		switch state[handle] {
		case done:
			return true
		case visiting, skipped:
			return false
		}

		style, ok := r.styles[handle]
		if !ok {
			return false
		}

		state[handle] = visiting
		for _, dep := range style.Deps {
			if !visit(dep) {
				state[handle] = skipped
				return false
			}
		}
		state[handle] = done
		out = append(out, style)
		return true
	}

	for _, handle := range r.order {
		visit(handle)
	}
	return out
}

// Render writes one link tag per printable stylesheet
func (r *Registry) Render(w io.Writer) error {
	if err := linkTemplate.Execute(w, r.Styles()); err != nil {
		return fmt.Errorf("failed to render styles: %w", err)
	}
	return nil
}
