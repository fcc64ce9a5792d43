// Package dockerfile generates the Dockerfile consumed by `docker build`
// from a placeholder template.
package dockerfile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dockerize/python-to-image/pkg/errors"
	utillog "github.com/dockerize/python-to-image/pkg/util/log"
)

var log = utillog.StderrLog

// TemplateEnvVar names the environment variable that points at a template
// file overriding the embedded default.
const TemplateEnvVar = "DOCKERFILE_TEMPLATE"

// Placeholders replaced in the template. Substitution is literal text
// replacement, not a template language: anything else in the template passes
// through verbatim.
const (
	PlaceholderPythonVersion = "{{PYTHON_VERSION}}"
	PlaceholderModules       = "{{MODULES}}"
	PlaceholderScriptName    = "{{SCRIPT_NAME}}"
)

// DefaultTemplate is the embedded Dockerfile template used when no override
// is configured.
const DefaultTemplate = `
FROM python:` + PlaceholderPythonVersion + `

RUN useradd -ms /bin/bash dock
USER dock

RUN pip install ` + PlaceholderModules + `

COPY ` + PlaceholderScriptName + ` /home/dock/` + PlaceholderScriptName + `
WORKDIR /home/dock

ENTRYPOINT ["python3", "` + PlaceholderScriptName + `"]
`

// LoadTemplate returns the template text, preferring the file named by
// DOCKERFILE_TEMPLATE. A missing or unreadable override silently falls back
// to the embedded default.
func LoadTemplate() string {
	path := os.Getenv(TemplateEnvVar)
	if path == "" {
		return DefaultTemplate
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.V(1).Infof("Cannot read template override %q (%v), using the default template", path, err)
		return DefaultTemplate
	}
	log.V(2).Infof("Using Dockerfile template from %s", path)
	return string(data)
}

// Substitute fills the three placeholders with the python version, the
// space-joined module list and the script's base file name.
func Substitute(template, pythonVersion string, modules []string, scriptName string) string {
	filled := strings.ReplaceAll(template, PlaceholderPythonVersion, pythonVersion)
	filled = strings.ReplaceAll(filled, PlaceholderModules, strings.Join(modules, " "))
	filled = strings.ReplaceAll(filled, PlaceholderScriptName, scriptName)
	return filled
}

// Generate writes a Dockerfile next to the script and returns its path. An
// existing Dockerfile at that location is overwritten.
func Generate(scriptDir, scriptName, pythonVersion string, modules []string) (string, error) {
	content := Substitute(LoadTemplate(), pythonVersion, modules, scriptName)

	path := filepath.Join(scriptDir, "Dockerfile")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", errors.NewDockerfileCreateError(path, err)
	}
	log.V(1).Infof("Dockerfile generated at %s", path)
	return path, nil
}
