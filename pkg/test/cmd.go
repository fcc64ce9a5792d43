package test

import (
	"fmt"

	"github.com/dockerize/python-to-image/pkg/util"
)

// Invocation records a single command executed through FakeCommandRunner.
type Invocation struct {
	Name string
	Args []string
	Opts util.CommandOpts
}

// FakeCommandRunner provides a fake CommandRunner. Every invocation is
// recorded; OnRun, when set, fakes the command's behavior (writing output,
// returning an error).
type FakeCommandRunner struct {
	Invocations []Invocation

	// OnRun is called for each invocation; its return value is the
	// command's result. When nil, every command succeeds silently.
	OnRun func(opts util.CommandOpts, name string, args ...string) error
}

// RunWithOptions records the invocation and delegates to OnRun.
func (f *FakeCommandRunner) RunWithOptions(opts util.CommandOpts, name string, args ...string) error {
	f.Invocations = append(f.Invocations, Invocation{Name: name, Args: args, Opts: opts})
	if f.OnRun != nil {
		return f.OnRun(opts, name, args...)
	}
	return nil
}

// Run records the invocation with default options.
func (f *FakeCommandRunner) Run(name string, args ...string) error {
	return f.RunWithOptions(util.CommandOpts{}, name, args...)
}

// CommandLines returns the recorded invocations as single strings, which
// keeps assertions in tests short.
func (f *FakeCommandRunner) CommandLines() []string {
	lines := []string{}
	for _, inv := range f.Invocations {
		line := inv.Name
		for _, arg := range inv.Args {
			line = fmt.Sprintf("%s %s", line, arg)
		}
		lines = append(lines, line)
	}
	return lines
}
