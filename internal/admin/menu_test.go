package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sheabunge/functionality/internal/system"
)

func TestMenuReplacesSlug(t *testing.T) {
	m := NewMenu()
	m.AddPluginsPage("Edit Functions", "functionality-functions.php", func(context.Context, *system.Credentials) (string, error) {
		return "/first", nil
	})
	m.AddPluginsPage("Funktionen bearbeiten", "functionality-functions.php", func(context.Context, *system.Credentials) (string, error) {
		return "/second", nil
	})

	pages := m.Pages()
	require.Len(t, pages, 1)
	require.Equal(t, "Funktionen bearbeiten", pages[0].Label)

	page, ok := m.Page("functionality-functions.php")
	require.True(t, ok)
	target, err := page.Open(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "/second", target)

	_, ok = m.Page("missing")
	require.False(t, ok)
}
