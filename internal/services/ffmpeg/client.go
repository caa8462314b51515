package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

var commandContext = exec.CommandContext

const defaultTailLines = 20

// Runner executes ffmpeg with the provided arguments. onLine receives each
// stdout line as it is produced; it may be nil.
type Runner interface {
	Run(ctx context.Context, args []string, onLine func(string)) error
}

// Option configures the CLI runner.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if strings.TrimSpace(binary) != "" {
			c.binary = strings.TrimSpace(binary)
		}
	}
}

// WithTailLines sets how many trailing stderr lines are kept for diagnostics.
func WithTailLines(n int) Option {
	return func(c *CLI) {
		if n > 0 {
			c.tailLines = n
		}
	}
}

// CLI runs the ffmpeg executable.
type CLI struct {
	binary    string
	tailLines int
}

// NewCLI constructs a CLI runner using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", tailLines: defaultTailLines}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Binary returns the executable the runner invokes.
func (c *CLI) Binary() string {
	return c.binary
}

// ExitError reports a failed ffmpeg invocation together with the last lines
// it wrote to stderr.
type ExitError struct {
	Binary string
	Args   []string
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Binary, e.Err)
	if tail := strings.TrimSpace(e.Stderr); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// Run launches ffmpeg and blocks until it exits.
func (c *CLI) Run(ctx context.Context, args []string, onLine func(string)) error {
	if len(args) == 0 {
		return errors.New("ffmpeg arguments required")
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", c.binary, err)
	}

	tail := newTailBuffer(c.tailLines)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tail.consume(stderr)
	}()

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}
	scanErr := scanner.Err()
	// Drain so the process never blocks on a full pipe after a scan error.
	_, _ = io.Copy(io.Discard, stdout)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &ExitError{Binary: c.binary, Args: append([]string(nil), args...), Stderr: tail.String(), Err: err}
	}
	if scanErr != nil {
		return fmt.Errorf("read %s output: %w", c.binary, scanErr)
	}
	return nil
}

type tailBuffer struct {
	max   int
	lines []string
}

func newTailBuffer(max int) *tailBuffer {
	if max <= 0 {
		max = defaultTailLines
	}
	return &tailBuffer{max: max}
}

func (t *tailBuffer) consume(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		t.lines = append(t.lines, line)
		if len(t.lines) > t.max {
			t.lines = t.lines[len(t.lines)-t.max:]
		}
	}
	// A line past the scanner's limit ends the scan; keep the pipe empty so
	// ffmpeg never blocks writing stderr.
	_, _ = io.Copy(io.Discard, r)
}

func (t *tailBuffer) String() string {
	return strings.Join(t.lines, "\n")
}

var _ Runner = (*CLI)(nil)
