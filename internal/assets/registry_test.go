package assets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func handles(styles []Style) []string {
	var out []string
	for _, s := range styles {
		out = append(out, s.Handle)
	}
	return out
}

func TestEnqueueStyleFirstWins(t *testing.T) {
	r := NewRegistry()
	r.EnqueueStyle("functionality-style", "https://example.com/a.css", nil, "1")
	r.EnqueueStyle("functionality-style", "https://example.com/b.css", nil, "2")

	styles := r.Styles()
	require.Len(t, styles, 1)
	require.Equal(t, "https://example.com/a.css", styles[0].Src)
}

func TestStylesDependencyOrder(t *testing.T) {
	r := NewRegistry()
	r.EnqueueStyle("child", "/child.css", []string{"theme"}, "")
	r.EnqueueStyle("orphan", "/orphan.css", []string{"missing"}, "")
	r.EnqueueStyle("theme", "/theme.css", nil, "")
	r.EnqueueStyle("a", "/a.css", []string{"b"}, "")
	r.EnqueueStyle("b", "/b.css", []string{"a"}, "")

	require.Equal(t, []string{"theme", "child"}, handles(r.Styles()))
}

func TestStyleURL(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		want  string
	}{
		{"with version", Style{Src: "/style.css", Version: "2024.03.05"}, "/style.css?ver=2024.03.05"},
		{"existing query", Style{Src: "/style.css?x=1", Version: "2"}, "/style.css?x=1&ver=2"},
		{"no version", Style{Src: "/style.css"}, "/style.css"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.style.URL())
		})
	}
}

func TestRender(t *testing.T) {
	r := NewRegistry()
	r.EnqueueStyle("functionality-style", "https://example.com/wp-content/plugins/functions/style.css", nil, "2024.03.05")

	var b strings.Builder
	require.NoError(t, r.Render(&b))
	require.Equal(t,
		`<link rel="stylesheet" id="functionality-style-css" href="https://example.com/wp-content/plugins/functions/style.css?ver=2024.03.05" media="all" />`+"\n",
		b.String())
}

func TestRenderEscapes(t *testing.T) {
	r := NewRegistry()
	r.EnqueueStyle(`x"><script>`, "javascript:alert(1)", nil, "")

	var b strings.Builder
	require.NoError(t, r.Render(&b))
	require.NotContains(t, b.String(), "<script>")
	require.NotContains(t, b.String(), "javascript:")
}

func TestRenderEmpty(t *testing.T) {
	var b strings.Builder
	require.NoError(t, NewRegistry().Render(&b))
	require.Empty(t, b.String())
}
