package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds every command, so a sudo prompt that never
// reads its input cannot hang a request.
const DefaultCommandTimeout = 30 * time.Second

// CommandRunner runs external commands. Run and RunWithInput return the
// combined output; Output returns standard output alone.
type CommandRunner interface {
	Run(name string, args ...string) (string, error)
	RunWithInput(input string, name string, args ...string) (string, error)
	// Output feeds input to the command and returns only what it wrote to
	// standard output. Standard error ends up in the returned error.
	Output(input string, name string, args ...string) (string, error)
}

// ExecCommandRunner runs commands with os/exec
type ExecCommandRunner struct {
	Timeout time.Duration
}

// NewCommandRunner returns an ExecCommandRunner using DefaultCommandTimeout
func NewCommandRunner() CommandRunner {
	return &ExecCommandRunner{Timeout: DefaultCommandTimeout}
}

// Run executes name with args and no standard input
func (r *ExecCommandRunner) Run(name string, args ...string) (string, error) {
	var combined bytes.Buffer
	err := r.exec(nil, &combined, &combined, name, args)
	return combined.String(), err
}

// RunWithInput executes name with input on its standard input
func (r *ExecCommandRunner) RunWithInput(input string, name string, args ...string) (string, error) {
	var combined bytes.Buffer
	err := r.exec(strings.NewReader(input), &combined, &combined, name, args)
	return combined.String(), err
}

func (r *ExecCommandRunner) Output(input string, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	err := r.exec(strings.NewReader(input), &stdout, &stderr, name, args)
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}

func (r *ExecCommandRunner) exec(stdin io.Reader, stdout, stderr io.Writer, name string, args []string) error {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	// sudo messages are matched in English
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	if stdin != nil {
		cmd.Stdin = stdin
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out after %s", name, timeout)
	}
	return err
}
