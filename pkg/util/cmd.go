package util

import (
	"io"
	"os/exec"
)

// CommandOpts contains options to attach Stdout/err to a command to run or
// set its initial directory and extra environment.
type CommandOpts struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Dir    string
	// Env, when non-nil, is the complete environment of the command. Use
	// append(os.Environ(), ...) to extend the current one.
	Env []string
}

// CommandRunner is an interface to run a command with options.
type CommandRunner interface {
	RunWithOptions(opts CommandOpts, name string, arg ...string) error
	Run(name string, arg ...string) error
}

// NewCommandRunner creates a new instance of the default implementation of
// CommandRunner.
func NewCommandRunner() CommandRunner {
	return &runner{}
}

type runner struct{}

// RunWithOptions runs a command with the provided options.
func (c *runner) RunWithOptions(opts CommandOpts, name string, arg ...string) error {
	cmd := exec.Command(name, arg...)
	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	}
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if opts.Env != nil {
		cmd.Env = opts.Env
	}
	return cmd.Run()
}

// Run runs a command with default options.
func (c *runner) Run(name string, arg ...string) error {
	return c.RunWithOptions(CommandOpts{}, name, arg...)
}

// CommandExitCode extracts the exit code from an error returned by a
// CommandRunner, or -1 when the command did not run to completion.
func CommandExitCode(err error) int {
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}
