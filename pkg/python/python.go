// Package python asks the local Python interpreter which module names belong
// to its standard distribution, so that those imports are never treated as
// installable dependencies.
package python

import (
	"bufio"
	"bytes"
	"sort"
	"strings"

	"github.com/dockerize/python-to-image/pkg/errors"
	"github.com/dockerize/python-to-image/pkg/util"
	utillog "github.com/dockerize/python-to-image/pkg/util/log"
)

var log = utillog.StderrLog

// DefaultInterpreter is used when no --interpreter is given.
const DefaultInterpreter = "python3"

// enumerateProgram prints the union of built-in and standard-library module
// names, one per line, with underscore-prefixed names filtered out.
const enumerateProgram = `
import sys

names = set(sys.builtin_module_names) | set(sys.stdlib_module_names)
for name in sorted(n for n in names if not n.startswith('_')):
    print(name)
`

// ModuleSet is a set of module names considered part of the standard
// distribution.
type ModuleSet map[string]struct{}

// Has reports whether name is in the set.
func (s ModuleSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// List returns the sorted members of the set.
func (s ModuleSet) List() []string {
	result := make([]string, 0, len(s))
	for name := range s {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// StdlibModules runs the interpreter to enumerate its standard-library and
// built-in module names. The subprocess's stderr is carried in the returned
// error when the interpreter cannot be spawned or exits non-zero.
func StdlibModules(runner util.CommandRunner, interpreter string) (ModuleSet, error) {
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}

	var stdout, stderr bytes.Buffer
	opts := util.CommandOpts{
		Stdout: &stdout,
		Stderr: &stderr,
	}
	if err := runner.RunWithOptions(opts, interpreter, "-c", enumerateProgram); err != nil {
		return nil, errors.NewStdlibEnumerationError(interpreter, strings.TrimSpace(stderr.String()), err)
	}

	modules := ModuleSet{}
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		modules[name] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewStdlibEnumerationError(interpreter, "", err)
	}

	log.V(3).Infof("Interpreter %s reported %d standard modules", interpreter, len(modules))
	return modules, nil
}
