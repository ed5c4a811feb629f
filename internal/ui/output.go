// Package ui prints colored status messages and asks questions on the
// terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const lineWidth = 70

type level int

const (
	levelInfo level = iota
	levelSuccess
	levelWarning
	levelError
)

var levelTags = [...]struct {
	tag   string
	color color.Attribute
}{
	levelInfo:    {"[INFO]", color.FgBlue},
	levelSuccess: {"[✓]", color.FgGreen},
	levelWarning: {"[WARNING]", color.FgYellow},
	levelError:   {"[ERROR]", color.FgRed},
}

// UI writes colored messages and menus to one writer and asks questions
// on the terminal
type UI struct {
	output         io.Writer
	nonInteractive bool
	levels         [len(levelTags)]*color.Color
	bold           *color.Color
	accent         *color.Color
}

// New creates a UI writing to stderr
func New() *UI {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter creates a UI writing to w
func NewWithWriter(w io.Writer) *UI {
	u := &UI{
		output: w,
		bold:   color.New(color.Bold),
		accent: color.New(color.FgCyan, color.Bold),
	}
	for i, l := range levelTags {
		u.levels[i] = color.New(l.color)
	}
	return u
}

// SetNonInteractive makes every prompt fail with ErrNonInteractive
func (u *UI) SetNonInteractive(enabled bool) {
	u.nonInteractive = enabled
}

func (u *UI) IsNonInteractive() bool {
	return u.nonInteractive
}

func (u *UI) Writer() io.Writer {
	return u.output
}

func (u *UI) message(l level, msg string) {
	u.levels[l].Fprintf(u.output, "%s %s\n", levelTags[l].tag, msg)
}

func (u *UI) Info(msg string)    { u.message(levelInfo, msg) }
func (u *UI) Success(msg string) { u.message(levelSuccess, msg) }
func (u *UI) Warning(msg string) { u.message(levelWarning, msg) }
func (u *UI) Error(msg string)   { u.message(levelError, msg) }

func (u *UI) Infof(format string, args ...any)    { u.Info(fmt.Sprintf(format, args...)) }
func (u *UI) Successf(format string, args ...any) { u.Success(fmt.Sprintf(format, args...)) }
func (u *UI) Warningf(format string, args ...any) { u.Warning(fmt.Sprintf(format, args...)) }
func (u *UI) Errorf(format string, args ...any)   { u.Error(fmt.Sprintf(format, args...)) }

// Header prints a title between two borders
func (u *UI) Header(title string) {
	border := strings.Repeat("=", lineWidth)

	fmt.Fprintln(u.output)
	u.accent.Fprintln(u.output, border)
	u.accent.Fprintf(u.output, "  %s\n", title)
	u.accent.Fprintln(u.output, border)
	fmt.Fprintln(u.output)
}

// Separator prints a separator line
func (u *UI) Separator() {
	u.accent.Fprintln(u.output, strings.Repeat("-", lineWidth))
}

// Print prints a plain message without formatting
func (u *UI) Print(msg string) {
	fmt.Fprintln(u.output, msg)
}

// Printf prints a formatted plain message
func (u *UI) Printf(format string, args ...any) {
	fmt.Fprintf(u.output, format+"\n", args...)
}

// Option prints a menu entry such as "  [F] Edit Functions"
func (u *UI) Option(key, label string) {
	u.bold.Fprintf(u.output, "  [%s] ", key)
	fmt.Fprintln(u.output, label)
}

// KeyValues prints aligned "key: value" lines
func (u *UI) KeyValues(pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		if w := runewidth.StringWidth(p[0]); w > width {
			width = w
		}
	}
	for _, p := range pairs {
		u.bold.Fprintf(u.output, "  %s:", p[0])
		fmt.Fprintf(u.output, "%s %s\n", strings.Repeat(" ", width-runewidth.StringWidth(p[0])), p[1])
	}
}

// Bold prints bold text
func (u *UI) Bold(msg string) {
	u.bold.Fprintln(u.output, msg)
}
