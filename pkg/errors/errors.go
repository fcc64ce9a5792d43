// Package errors provides the structured error type returned to callers of
// the p2i pipeline, carrying a machine error code and a suggestion shown to
// the user alongside the message.
package errors

import (
	"fmt"
)

// Common p2i errors
const (
	ScriptReadError int = 1 + iota
	ScriptPathError
	StdlibEnumerationError
	RegistryLookupError
	ConfigParseError
	DockerfileCreateError
	DockerConnectionError
	BuildError
	ContainerRunError
	InvalidTagError
)

// Error represents an error thrown during p2i execution.
type Error struct {
	Message    string
	Details    error
	ErrorCode  int
	Suggestion string
}

// ContainerError is an error returned when a container exits with a non-zero
// code.
type ContainerError struct {
	Message    string
	Output     string
	ErrorCode  int
	Suggestion string
	ExitCode   int
}

// Error returns a string for a given error.
func (e Error) Error() string {
	return e.Message
}

// Error returns a string for the given error.
func (e ContainerError) Error() string {
	return e.Message
}

// NewScriptReadError returns a new error which indicates that the target
// script could not be opened or read.
func NewScriptReadError(path string, err error) error {
	return Error{
		Message:    fmt.Sprintf("unable to read script %q: %v", path, err),
		Details:    err,
		ErrorCode:  ScriptReadError,
		Suggestion: "check that the script path is correct and the file is readable",
	}
}

// NewScriptPathError returns a new error which indicates that a file name or
// parent directory could not be derived from the script path.
func NewScriptPathError(path string) error {
	return Error{
		Message:    fmt.Sprintf("unable to determine file name and directory for %q", path),
		ErrorCode:  ScriptPathError,
		Suggestion: "provide a path to a regular file, for example ./app.py",
	}
}

// NewStdlibEnumerationError returns a new error which indicates that the
// interpreter subprocess enumerating standard-library modules failed. The
// stderr output of the subprocess is part of the message.
func NewStdlibEnumerationError(interpreter string, stderr string, err error) error {
	return Error{
		Message:    fmt.Sprintf("enumerating standard-library modules with %q failed: %v: %s", interpreter, err, stderr),
		Details:    err,
		ErrorCode:  StdlibEnumerationError,
		Suggestion: "verify that the interpreter is installed and on PATH, or select another one with --interpreter",
	}
}

// NewRegistryLookupError returns a new error which indicates that a
// package-existence lookup failed and the abort policy is in effect.
func NewRegistryLookupError(name string, err error) error {
	return Error{
		Message:    fmt.Sprintf("package index lookup for %q failed: %v", name, err),
		Details:    err,
		ErrorCode:  RegistryLookupError,
		Suggestion: "check network connectivity, or rerun with --on-network-failure=absent to keep the historical behavior",
	}
}

// NewConfigParseError returns a new error which indicates that the
// import-mappings configuration file could not be parsed.
func NewConfigParseError(path string, err error) error {
	return Error{
		Message:    fmt.Sprintf("unable to parse configuration file %q: %v", path, err),
		Details:    err,
		ErrorCode:  ConfigParseError,
		Suggestion: "fix the YAML syntax, or remove the file to run without import mappings",
	}
}

// NewDockerfileCreateError returns a new error which indicates that the
// generated Dockerfile could not be written.
func NewDockerfileCreateError(path string, err error) error {
	return Error{
		Message:    fmt.Sprintf("unable to write Dockerfile %q: %v", path, err),
		Details:    err,
		ErrorCode:  DockerfileCreateError,
		Suggestion: "check permissions on the script's directory",
	}
}

// NewDockerConnectionError returns a new error which indicates that the
// Docker daemon could not be reached.
func NewDockerConnectionError(endpoint string, err error) error {
	return Error{
		Message:    fmt.Sprintf("cannot connect to the Docker daemon at %s: %v", endpoint, err),
		Details:    err,
		ErrorCode:  DockerConnectionError,
		Suggestion: "start the Docker daemon, or set the correct endpoint with --url or DOCKER_HOST",
	}
}

// NewBuildError returns a new error which indicates that the `docker build`
// invocation exited with a non-zero code.
func NewBuildError(tag string, exitCode int, err error) error {
	return Error{
		Message:    fmt.Sprintf("building image %q failed with exit code %d", tag, exitCode),
		Details:    err,
		ErrorCode:  BuildError,
		Suggestion: "inspect the docker build output above for the failing instruction",
	}
}

// NewInvalidTagError returns a new error which indicates that the image tag
// derived from the script name is not a valid Docker reference.
func NewInvalidTagError(tag string, err error) error {
	return Error{
		Message:    fmt.Sprintf("%q is not a valid image name", tag),
		Details:    err,
		ErrorCode:  InvalidTagError,
		Suggestion: "pass an explicit lowercase image name with --tag",
	}
}

// NewContainerError return a new error which indicates that the container
// run with the produced image exited with a non-zero code.
func NewContainerError(name string, code int, output string) error {
	return ContainerError{
		Message:    fmt.Sprintf("container %q exited with code %d", name, code),
		Output:     output,
		ErrorCode:  ContainerRunError,
		Suggestion: "the failure comes from the script itself; run it locally to debug",
		ExitCode:   code,
	}
}
