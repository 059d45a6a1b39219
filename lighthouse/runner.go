package lighthouse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultMaxOutput caps the audit output read from the CLI (10 MiB).
const DefaultMaxOutput = 10 << 20

// ErrOutputTooLarge is returned when a command writes more than the
// runner's output limit.
var ErrOutputTooLarge = errors.New("command output exceeds limit")

// Runner runs an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	// MaxOutput caps stdout. Zero means DefaultMaxOutput.
	MaxOutput int
}

// Run executes name with args. A non-zero exit status, a canceled context
// or output beyond MaxOutput is an error; stderr is included in exit
// errors.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	limit := r.MaxOutput
	if limit <= 0 {
		limit = DefaultMaxOutput
	}

	cmd := exec.CommandContext(ctx, name, args...)
	stdout := &limitedBuffer{limit: limit}
	stderr := &limitedBuffer{limit: 64 << 10}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s canceled: %w", name, ctx.Err())
	}
	if stdout.overflow {
		return nil, fmt.Errorf("%s: %w (%d bytes)", name, ErrOutputTooLarge, limit)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.buf.String())
			return nil, fmt.Errorf("%s exited with status %d: %s", name, exitErr.ExitCode(), msg)
		}
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	return stdout.buf.Bytes(), nil
}

// limitedBuffer keeps at most limit bytes and records whether more were
// written. It never fails a write so the child process is not killed by
// a broken pipe.
type limitedBuffer struct {
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room < len(p) {
		b.overflow = true
		if room > 0 {
			b.buf.Write(p[:room])
		}
		return len(p), nil
	}
	return b.buf.Write(p)
}
