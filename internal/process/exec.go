package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"
	"github.com/kballard/go-shellquote"
)

// DefaultRetryDelay is the pause between attempts of a retried command.
const DefaultRetryDelay = 500 * time.Millisecond

// ExecRunner runs commands on the local host with os/exec.
type ExecRunner struct {
	// RootHelper prefixes commands with RunAsRoot set, e.g. ["sudo", "-n"].
	RootHelper []string
	// Timeout bounds a single attempt. Zero means no timeout.
	Timeout time.Duration
	// RetryDelay is the pause between attempts. Zero uses DefaultRetryDelay.
	RetryDelay time.Duration
	// Clock drives retry delays. Nil uses the wall clock.
	Clock clock.Clock
}

// NewExecRunner creates an ExecRunner. rootHelper is split with shell
// quoting rules, so "sudo -n" becomes ["sudo", "-n"].
func NewExecRunner(rootHelper string, timeout, retryDelay time.Duration) (*ExecRunner, error) {
	helper, err := shellquote.Split(rootHelper)
	if err != nil {
		return nil, fmt.Errorf("invalid root helper %q: %w", rootHelper, err)
	}

	return &ExecRunner{
		RootHelper: helper,
		Timeout:    timeout,
		RetryDelay: retryDelay,
	}, nil
}

// Run executes cmd, retrying up to cmd.Attempts times while it exits
// non-zero. Commands that cannot be started are not retried.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Output, error) {
	if cmd.Attempts <= 1 {
		return r.runOnce(ctx, cmd)
	}

	var out Output
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			var runErr error
			out, runErr = r.runOnce(ctx, cmd)
			return runErr
		},
		IsFatalError: func(err error) bool {
			var execErr *ExecutionError
			return !errors.As(err, &execErr) || execErr.ExitCode < 0
		},
		NotifyFunc: func(err error, attempt int) {
			slog.Debug("Command attempt failed.",
				"cmd", cmd.String(),
				"attempt", attempt,
				"err", err,
			)
		},
		Attempts: cmd.Attempts,
		Delay:    r.retryDelay(),
		Clock:    r.clock(),
		Stop:     ctx.Done(),
	})
	if err == nil {
		return out, nil
	}

	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return out, execErr
	}
	if last := retry.LastError(err); last != nil {
		return out, last
	}
	return out, err
}

func (r *ExecRunner) runOnce(ctx context.Context, cmd Command) (Output, error) {
	argv := cmd.Argv()
	if cmd.RunAsRoot && len(r.RootHelper) > 0 {
		argv = append(append([]string{}, r.RootHelper...), argv...)
	}
	line := strings.Join(argv, " ")

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdout = &stdout
	c.Stderr = &stderr

	slog.Debug("Running command.", "cmd", line)

	err := c.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}

	execErr := &ExecutionError{
		Cmd:      line,
		ExitCode: -1,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		execErr.ExitCode = exitErr.ExitCode()
	}
	return out, execErr
}

func (r *ExecRunner) retryDelay() time.Duration {
	if r.RetryDelay > 0 {
		return r.RetryDelay
	}
	return DefaultRetryDelay
}

func (r *ExecRunner) clock() clock.Clock {
	if r.Clock != nil {
		return r.Clock
	}
	return clock.WallClock
}
