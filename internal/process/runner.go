package process

import (
	"context"
	"strings"
)

// Command describes a single external tool invocation.
type Command struct {
	Name      string   // Executable, e.g. "dd"
	Args      []string // Arguments in order
	RunAsRoot bool     // Prefix with the root helper
	Attempts  int      // Total attempts on failure (0 or 1 means no retry)
}

// NewCommand builds a Command from an executable and its arguments.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// AsRoot returns a copy of c that runs through the root helper.
func (c Command) AsRoot() Command {
	c.RunAsRoot = true
	return c
}

// WithAttempts returns a copy of c that is attempted up to n times.
func (c Command) WithAttempts(n int) Command {
	c.Attempts = n
	return c
}

// Argv returns the executable followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// Output holds the captured streams of a finished command.
type Output struct {
	Stdout string
	Stderr string
}

// Runner executes external commands.
//
// In production, this is satisfied by *ExecRunner.
// In tests, this is satisfied by *processtest.FakeRunner.
type Runner interface {
	// Run executes cmd and blocks until it exits. A non-zero exit status
	// is reported as an *ExecutionError.
	Run(ctx context.Context, cmd Command) (Output, error)
}
