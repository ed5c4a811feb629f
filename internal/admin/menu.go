package admin

import (
	"context"
	"sync"

	"github.com/sheabunge/functionality/internal/managed"
	"github.com/sheabunge/functionality/internal/system"
)

// Page is an entry below the plugins menu
type Page struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
	URL   string `json:"url"`
	open  managed.OpenFunc
}

// Open runs the first-load callback of the page and returns the URL to
// redirect to
func (p Page) Open(ctx context.Context, creds *system.Credentials) (string, error) {
	return p.open(ctx, creds)
}

// Menu collects admin pages. It implements managed.MenuRegistrar.
type Menu struct {
	mu    sync.RWMutex
	pages []Page
}

// NewMenu creates an empty menu
func NewMenu() *Menu {
	return &Menu{}
}

// AddPluginsPage registers a page. Registering a slug again replaces the
// earlier page.
func (m *Menu) AddPluginsPage(label, slug string, open managed.OpenFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	page := Page{Label: label, Slug: slug, URL: "/admin/plugins/" + slug, open: open}
	for i, p := range m.pages {
		if p.Slug == slug {
			m.pages[i] = page
			return
		}
	}
	m.pages = append(m.pages, page)
}

// Pages returns the pages in registration order
func (m *Menu) Pages() []Page {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Page(nil), m.pages...)
}

// Page looks up a page by slug
func (m *Menu) Page(slug string) (Page, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return Page{}, false
}
