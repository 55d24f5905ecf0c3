package process

import (
	"fmt"
	"strings"
)

// ExecutionError reports a command that could not be started or exited
// with a non-zero status.
type ExecutionError struct {
	Cmd      string // Rendered command line
	ExitCode int    // -1 when the process never ran
	Stdout   string
	Stderr   string
	Err      error // Underlying error from os/exec, if any
}

func (e *ExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "command %q failed", e.Cmd)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " with exit code %d", e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&b, ": %s", stderr)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
