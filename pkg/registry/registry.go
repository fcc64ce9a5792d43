// Package registry verifies candidate dependency names against a PyPI-style
// package index using its per-package JSON metadata endpoint.
package registry

import (
	"fmt"
	"net/http"

	"github.com/dockerize/python-to-image/pkg/api"
	"github.com/dockerize/python-to-image/pkg/errors"
	"github.com/dockerize/python-to-image/pkg/python"
	utillog "github.com/dockerize/python-to-image/pkg/util/log"
)

var log = utillog.StderrLog

// DefaultURL is the package index queried when no --registry is given.
const DefaultURL = "https://pypi.org"

// Client performs package-existence lookups. Lookups are memoized per
// Client, so identical names queried by multiple import lines hit the
// network once.
type Client struct {
	baseURL string
	policy  api.NetworkFailurePolicy
	client  *http.Client
	cache   map[string]bool
}

// New creates a registry client from the run configuration.
func New(config *api.Config) *Client {
	baseURL := config.RegistryURL
	if baseURL == "" {
		baseURL = DefaultURL
	}
	policy := config.OnNetworkFailure
	if policy == "" {
		policy = api.DefaultNetworkFailurePolicy
	}
	return &Client{
		baseURL: baseURL,
		policy:  policy,
		client:  http.DefaultClient,
		cache:   map[string]bool{},
	}
}

// Exists queries the index for name. A 2xx response means the package
// exists; any other status means it does not. A transport-level failure is
// resolved according to the configured network-failure policy, and only the
// abort policy makes it an error.
func (c *Client) Exists(name string) (bool, error) {
	if exists, ok := c.cache[name]; ok {
		return exists, nil
	}

	resp, err := c.client.Get(fmt.Sprintf("%s/pypi/%s/json", c.baseURL, name))
	if err != nil {
		switch c.policy {
		case api.NetworkFailureAbort:
			return false, errors.NewRegistryLookupError(name, err)
		case api.NetworkFailurePresent:
			log.Warningf("Lookup of %q failed (%v), recording it as present", name, err)
			c.cache[name] = true
			return true, nil
		default:
			log.Warningf("Lookup of %q failed (%v), treating it as absent", name, err)
			c.cache[name] = false
			return false, nil
		}
	}
	defer resp.Body.Close()

	exists := resp.StatusCode >= 200 && resp.StatusCode < 300
	log.V(3).Infof("Package %q exists=%v (HTTP %d)", name, exists, resp.StatusCode)
	c.cache[name] = exists
	return exists, nil
}

// Resolve maps an import declaration to a verified package name. Imports
// whose module is in the stdlib set resolve to nothing. A module+member
// import tries the dotted full name first and falls back to the root module.
// The second return value is false when no name could be verified.
func (c *Client) Resolve(imp api.PythonImport, stdlib python.ModuleSet) (string, bool, error) {
	if stdlib.Has(imp.Module) {
		log.V(4).Infof("Skipping standard module %q", imp.Module)
		return "", false, nil
	}

	if imp.Member != "" {
		exists, err := c.Exists(imp.Dotted())
		if err != nil {
			return "", false, err
		}
		if exists {
			return imp.Dotted(), true, nil
		}
	}

	exists, err := c.Exists(imp.Module)
	if err != nil {
		return "", false, err
	}
	if exists {
		return imp.Module, true, nil
	}

	log.V(1).Infof("Import %q matches no package on the index, ignoring it", imp.Dotted())
	return "", false, nil
}

// ResolveAll resolves every import in source order and returns the verified
// names, duplicates retained. Verification is sequential; each import issues
// at most two uncached lookups.
func (c *Client) ResolveAll(imports []api.PythonImport, stdlib python.ModuleSet) ([]string, error) {
	verified := []string{}
	for _, imp := range imports {
		name, ok, err := c.Resolve(imp, stdlib)
		if err != nil {
			return nil, err
		}
		if ok {
			verified = append(verified, name)
		}
	}
	return verified, nil
}
