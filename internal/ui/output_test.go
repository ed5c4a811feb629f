package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestUI(t *testing.T) (*UI, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	return NewWithWriter(&buf), &buf
}

func TestMessages(t *testing.T) {
	u, buf := newTestUI(t)

	u.Infof("Created %s", "functions.php")
	u.Success("done")
	u.Warning("careful")
	u.Errorf("failed: %d", 2)

	want := "[INFO] Created functions.php\n[✓] done\n[WARNING] careful\n[ERROR] failed: 2\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestKeyValues(t *testing.T) {
	u, buf := newTestUI(t)

	u.KeyValues([][2]string{
		{"File", "functions/functions.php"},
		{"Active", "yes"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if lines[0] != "  File:   functions/functions.php" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "  Active: yes" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestOption(t *testing.T) {
	u, buf := newTestUI(t)
	u.Option("F", "Edit Functions")
	if buf.String() != "  [F] Edit Functions\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPromptsNonInteractive(t *testing.T) {
	u, _ := newTestUI(t)
	u.SetNonInteractive(true)

	if _, err := u.PromptPassword("Password"); err != ErrNonInteractive {
		t.Errorf("PromptPassword() error = %v, want ErrNonInteractive", err)
	}
	if _, err := u.PromptYesNo("Sure?", false); err != ErrNonInteractive {
		t.Errorf("PromptYesNo() error = %v, want ErrNonInteractive", err)
	}
	if _, err := u.PromptSelect("Pick", []string{"a"}); err != ErrNonInteractive {
		t.Errorf("PromptSelect() error = %v, want ErrNonInteractive", err)
	}
}
