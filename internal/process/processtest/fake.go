// Package processtest provides a recording process.Runner for tests.
package processtest

import (
	"context"
	"slices"
	"sync"

	"github.com/jbweber/crucible/internal/process"
)

// HandlerFunc decides the outcome of a faked command.
type HandlerFunc func(cmd process.Command) (process.Output, error)

// FakeRunner records every command it is asked to run. Outcomes come from
// Handler, or succeed with empty output when Handler is nil.
type FakeRunner struct {
	Handler HandlerFunc

	mu    sync.Mutex
	calls []process.Command
}

// NewFakeRunner returns a FakeRunner using handler.
func NewFakeRunner(handler HandlerFunc) *FakeRunner {
	return &FakeRunner{Handler: handler}
}

// Run records cmd and returns the handler's result.
func (f *FakeRunner) Run(_ context.Context, cmd process.Command) (process.Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	handler := f.Handler
	f.mu.Unlock()

	if handler == nil {
		return process.Output{}, nil
	}
	return handler(cmd)
}

// Calls returns the recorded commands in invocation order.
func (f *FakeRunner) Calls() []process.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Argvs returns the recorded commands as executable-plus-arguments slices.
func (f *FakeRunner) Argvs() [][]string {
	calls := f.Calls()
	argvs := make([][]string, 0, len(calls))
	for _, c := range calls {
		argvs = append(argvs, c.Argv())
	}
	return argvs
}

// CallsTo returns the recorded commands whose executable is name.
func (f *FakeRunner) CallsTo(name string) []process.Command {
	var matched []process.Command
	for _, c := range f.Calls() {
		if c.Name == name {
			matched = append(matched, c)
		}
	}
	return matched
}

// Fail builds an ExecutionError for cmd, as a failing tool would produce.
func Fail(cmd process.Command, exitCode int, stderr string) error {
	return &process.ExecutionError{
		Cmd:      cmd.String(),
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}
