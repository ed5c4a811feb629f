package managed

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/sheabunge/functionality/internal/config"
)

// BuildHeaderComment renders fields as a block comment, one "Key: Value"
// line per field in order, with values aligned to the widest key:
//
//	/*
//	Plugin Name: Site
//	Plugin URI:  http://x
//	*/
func BuildHeaderComment(fields []config.HeaderField) string {
	keys := make([]string, len(fields))
	width := 0
	for i, f := range fields {
		keys[i] = escapeComment(f.Key)
		if w := runewidth.StringWidth(keys[i]); w > width {
			width = w
		}
	}

	var b strings.Builder
	b.WriteString("/*\n")
	for i, f := range fields {
		b.WriteString(keys[i])
		b.WriteString(": ")
		b.WriteString(strings.Repeat(" ", width-runewidth.StringWidth(keys[i])))
		b.WriteString(escapeComment(f.Value))
		b.WriteString("\n")
	}
	b.WriteString("*/\n")

	return b.String()
}

// escapeComment keeps a value from closing the comment early or spilling
// onto a new line.
func escapeComment(s string) string {
	s = strings.ReplaceAll(s, "*/", "* /")
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// MergeHeader applies overrides to the default fields. An override with a
// known key replaces that value in place, an unknown key is appended, and an
// empty value removes the field.
func MergeHeader(defaults, overrides []config.HeaderField) []config.HeaderField {
	fields := make([]config.HeaderField, len(defaults))
	copy(fields, defaults)

	for _, o := range overrides {
		idx := -1
		for i, f := range fields {
			if f.Key == o.Key {
				idx = i
				break
			}
		}

		switch {
		case idx >= 0 && o.Value == "":
			fields = append(fields[:idx], fields[idx+1:]...)
		case idx >= 0:
			fields[idx].Value = o.Value
		case o.Value != "":
			fields = append(fields, o)
		}
	}

	return fields
}
