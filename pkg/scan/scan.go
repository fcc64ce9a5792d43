// Package scan extracts import declarations from Python source files.
//
// The extraction is deliberately line-oriented: multi-line imports, aliases,
// conditional imports and commented-out import keywords are out of scope and
// are silently skipped.
package scan

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/dockerize/python-to-image/pkg/api"
	"github.com/dockerize/python-to-image/pkg/errors"
	utillog "github.com/dockerize/python-to-image/pkg/util/log"
)

var log = utillog.StderrLog

const (
	importPrefix = "import "
	fromPrefix   = "from "
	// fromDelimiter separates module and member in a `from X import Y` line.
	fromDelimiter = " import "
)

// File reads the script at path and returns its import declarations in
// source order, duplicates retained.
func File(path string) ([]api.PythonImport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewScriptReadError(path, err)
	}
	defer f.Close()

	imports, err := Imports(f)
	if err != nil {
		return nil, errors.NewScriptReadError(path, err)
	}
	log.V(2).Infof("Found %d import declaration(s) in %s", len(imports), path)
	return imports, nil
}

// Imports scans source text and returns the import declarations it contains.
// Lines matching neither the `import ` nor the `from ` prefix are skipped,
// as are `from` lines that do not contain exactly one ` import ` delimiter.
func Imports(r io.Reader) ([]api.PythonImport, error) {
	imports := []api.PythonImport{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, importPrefix):
			imports = append(imports, api.PythonImport{
				Module: strings.TrimSpace(line[len(importPrefix):]),
			})
		case strings.HasPrefix(line, fromPrefix):
			parts := strings.Split(line[len(fromPrefix):], fromDelimiter)
			if len(parts) != 2 {
				log.V(4).Infof("Skipping unparseable from-import line: %q", line)
				continue
			}
			imports = append(imports, api.PythonImport{
				Module: strings.TrimSpace(parts[0]),
				Member: strings.TrimSpace(parts[1]),
			})
		}
	}

	return imports, scanner.Err()
}
