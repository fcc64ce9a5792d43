// Package config loads the optional import-mappings file, which lets users
// rewrite verified package names (for example sklearn -> scikit-learn)
// before they reach the Dockerfile.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dockerize/python-to-image/pkg/errors"
	utillog "github.com/dockerize/python-to-image/pkg/util/log"
)

var log = utillog.StderrLog

// Mappings maps an import name to the package name that should replace it.
type Mappings map[string]string

// configFile mirrors the on-disk layout:
//
//	defaults:
//	  import-mappings:
//	    sklearn: scikit-learn
type configFile struct {
	Defaults struct {
		ImportMappings map[string]string `yaml:"import-mappings"`
	} `yaml:"defaults"`
}

// DefaultPath returns the fixed location of the configuration file under the
// user's configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "p2i", "config.yaml")
}

// LoadMappings reads the import mappings from path, or from DefaultPath when
// path is empty. An absent file is not an error and yields an empty mapping;
// an unparseable file is fatal.
func LoadMappings(path string) (Mappings, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return Mappings{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.V(3).Infof("No configuration file at %s", path)
			return Mappings{}, nil
		}
		return nil, errors.NewConfigParseError(path, err)
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, errors.NewConfigParseError(path, err)
	}

	mappings := Mappings(cf.Defaults.ImportMappings)
	if mappings == nil {
		mappings = Mappings{}
	}
	log.V(3).Infof("Loaded %d import mapping(s) from %s", len(mappings), path)
	return mappings, nil
}

// Apply replaces each module with its mapped value when present and leaves
// it unchanged otherwise. The input slice is not modified.
func (m Mappings) Apply(modules []string) []string {
	result := make([]string, len(modules))
	for i, module := range modules {
		if mapped, ok := m[module]; ok {
			log.V(2).Infof("Remapping %q to %q", module, mapped)
			result[i] = mapped
		} else {
			result[i] = module
		}
	}
	return result
}
