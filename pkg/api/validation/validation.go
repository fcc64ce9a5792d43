// Package validation checks a run configuration before the pipeline starts,
// collecting every problem instead of stopping at the first one.
package validation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dockerize/python-to-image/pkg/api"
	"github.com/dockerize/python-to-image/pkg/docker"
)

// ValidateConfig returns a list of errors found in the configuration, or an
// empty list when it is usable.
func ValidateConfig(config *api.Config) []error {
	errs := []error{}

	if config.ScriptPath == "" {
		errs = append(errs, fmt.Errorf("script path must be provided"))
	} else {
		if filepath.Base(config.ScriptPath) == "." || filepath.Base(config.ScriptPath) == string(filepath.Separator) {
			errs = append(errs, fmt.Errorf("cannot determine a file name from %q", config.ScriptPath))
		}
		if info, err := os.Stat(config.ScriptPath); err != nil {
			errs = append(errs, fmt.Errorf("cannot stat script %q: %v", config.ScriptPath, err))
		} else if info.IsDir() {
			errs = append(errs, fmt.Errorf("%q is a directory, not a script", config.ScriptPath))
		}
	}

	if config.PythonVersion == "" {
		errs = append(errs, fmt.Errorf("python version must not be empty"))
	}

	if config.Tag != "" {
		if err := docker.ValidateTag(config.Tag); err != nil {
			errs = append(errs, err)
		}
	}

	switch config.OnNetworkFailure {
	case "", api.NetworkFailureAbsent, api.NetworkFailurePresent, api.NetworkFailureAbort:
	default:
		errs = append(errs, fmt.Errorf("invalid network-failure policy %q", config.OnNetworkFailure))
	}

	return errs
}
