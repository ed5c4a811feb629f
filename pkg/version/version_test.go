package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	prevVersion, prevCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = prevVersion, prevCommit })

	Version = "1.2.3"
	GitCommit = "abc123"

	info := Info()
	if !strings.HasPrefix(info, "functionality version 1.2.3 (commit: abc123") {
		t.Errorf("Info() = %q", info)
	}
	if Short() != "1.2.3" {
		t.Errorf("Short() = %q, want 1.2.3", Short())
	}
}
