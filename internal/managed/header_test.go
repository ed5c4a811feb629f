package managed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sheabunge/functionality/internal/config"
)

func TestBuildHeaderComment(t *testing.T) {
	tests := []struct {
		name   string
		fields []config.HeaderField
		want   string
	}{
		{
			name:   "aligned to widest key",
			fields: []config.HeaderField{{Key: "A", Value: "1"}, {Key: "BB", Value: "2"}},
			want:   "/*\nA:  1\nBB: 2\n*/\n",
		},
		{
			name: "plugin fields keep order",
			fields: []config.HeaderField{
				{Key: "Plugin Name", Value: "Site"},
				{Key: "Plugin URI", Value: "http://x"},
			},
			want: "/*\nPlugin Name: Site\nPlugin URI:  http://x\n*/\n",
		},
		{
			name:   "wide characters",
			fields: []config.HeaderField{{Key: "名前", Value: "x"}, {Key: "ab", Value: "y"}},
			want:   "/*\n名前: x\nab:   y\n*/\n",
		},
		{
			name:   "comment terminator in value",
			fields: []config.HeaderField{{Key: "Description", Value: "a */ b\nc"}},
			want:   "/*\nDescription: a * / b c\n*/\n",
		},
		{
			name:   "comment terminator in key keeps alignment",
			fields: []config.HeaderField{{Key: "A*/", Value: "1"}, {Key: "Plugin Name", Value: "Site"}},
			want:   "/*\nA* /:        1\nPlugin Name: Site\n*/\n",
		},
		{
			name: "no fields",
			want: "/*\n*/\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, BuildHeaderComment(tt.fields))
		})
	}
}

func TestMergeHeader(t *testing.T) {
	defaults := []config.HeaderField{
		{Key: "Plugin Name", Value: "Site"},
		{Key: "Version", Value: "2024.03.05"},
		{Key: "License", Value: "GPL"},
	}

	tests := []struct {
		name      string
		overrides []config.HeaderField
		want      []config.HeaderField
	}{
		{
			name: "no overrides",
			want: defaults,
		},
		{
			name:      "replace in place",
			overrides: []config.HeaderField{{Key: "License", Value: "MIT"}},
			want: []config.HeaderField{
				{Key: "Plugin Name", Value: "Site"},
				{Key: "Version", Value: "2024.03.05"},
				{Key: "License", Value: "MIT"},
			},
		},
		{
			name:      "append new key",
			overrides: []config.HeaderField{{Key: "Text Domain", Value: "site"}},
			want: []config.HeaderField{
				{Key: "Plugin Name", Value: "Site"},
				{Key: "Version", Value: "2024.03.05"},
				{Key: "License", Value: "GPL"},
				{Key: "Text Domain", Value: "site"},
			},
		},
		{
			name:      "empty value removes",
			overrides: []config.HeaderField{{Key: "Version", Value: ""}},
			want: []config.HeaderField{
				{Key: "Plugin Name", Value: "Site"},
				{Key: "License", Value: "GPL"},
			},
		},
		{
			name:      "empty unknown key ignored",
			overrides: []config.HeaderField{{Key: "Network", Value: ""}},
			want:      defaults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, MergeHeader(defaults, tt.overrides))
		})
	}

	// defaults are never modified
	require.Equal(t, "GPL", defaults[2].Value)
	require.Len(t, defaults, 3)
}
