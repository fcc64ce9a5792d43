// Package docker handles the connection to the Docker daemon and image name
// validation. Building and running images shells out to the docker CLI (see
// pkg/build and pkg/run); the engine API is used only to verify the daemon
// is reachable before any work starts.
package docker

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/docker/distribution/reference"
	dockertypes "github.com/docker/docker/api/types"
	dockerclient "github.com/docker/docker/client"
	"github.com/docker/go-connections/tlsconfig"

	"github.com/dockerize/python-to-image/pkg/api"
	"github.com/dockerize/python-to-image/pkg/errors"
	utillog "github.com/dockerize/python-to-image/pkg/util/log"
)

var log = utillog.StderrLog

const (
	// DefaultEndpoint is the docker network endpoint used when DOCKER_HOST
	// is not set.
	DefaultEndpoint = "unix:///var/run/docker.sock"

	// DefaultTimeout is the timeout for the daemon reachability check.
	DefaultTimeout = 10 * time.Second
)

// Docker is the interface to the subset of the Docker engine API this tool
// uses.
type Docker interface {
	// CheckReachable returns an error if the Docker daemon is not reachable.
	CheckReachable() error
	// Version returns the version reported by the Docker daemon.
	Version() (dockertypes.Version, error)
}

type engineClient struct {
	client   *dockerclient.Client
	endpoint string
}

// GetDefaultDockerConfig returns a DockerConfig populated from the standard
// DOCKER_HOST, DOCKER_CERT_PATH and DOCKER_TLS_VERIFY environment variables.
func GetDefaultDockerConfig() *api.DockerConfig {
	cfg := &api.DockerConfig{}

	if cfg.Endpoint = os.Getenv("DOCKER_HOST"); cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	certPath := os.Getenv("DOCKER_CERT_PATH")
	if certPath == "" {
		certPath = filepath.Join(os.Getenv("HOME"), ".docker")
	}
	cfg.CertFile = filepath.Join(certPath, "cert.pem")
	cfg.KeyFile = filepath.Join(certPath, "key.pem")
	cfg.CAFile = filepath.Join(certPath, "ca.pem")

	if os.Getenv("DOCKER_TLS_VERIFY") == "1" {
		cfg.TLSVerify = true
	}
	if cfg.TLSVerify {
		cfg.UseTLS = true
	}

	return cfg
}

// New creates a Docker client using the given connection configuration.
func New(config *api.DockerConfig) (Docker, error) {
	opts := []dockerclient.Opt{
		dockerclient.WithHost(config.Endpoint),
		dockerclient.WithAPIVersionNegotiation(),
	}

	if config.UseTLS || config.TLSVerify {
		tlsOpts := tlsconfig.Options{
			CAFile:             config.CAFile,
			CertFile:           config.CertFile,
			KeyFile:            config.KeyFile,
			InsecureSkipVerify: !config.TLSVerify,
		}
		tlsc, err := tlsconfig.Client(tlsOpts)
		if err != nil {
			return nil, errors.NewDockerConnectionError(config.Endpoint, err)
		}
		opts = append(opts, dockerclient.WithHTTPClient(&http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsc},
		}))
	}

	client, err := dockerclient.NewClientWithOpts(opts...)
	if err != nil {
		return nil, errors.NewDockerConnectionError(config.Endpoint, err)
	}
	return &engineClient{client: client, endpoint: config.Endpoint}, nil
}

// CheckReachable creates a client from the run configuration and verifies
// the daemon answers a version request.
func CheckReachable(config *api.Config) error {
	d, err := New(config.DockerConfig)
	if err != nil {
		return err
	}
	return d.CheckReachable()
}

func (d *engineClient) CheckReachable() error {
	v, err := d.Version()
	if err != nil {
		return errors.NewDockerConnectionError(d.endpoint, err)
	}
	log.V(2).Infof("Docker daemon reachable at %s (server version %s)", d.endpoint, v.Version)
	return nil
}

func (d *engineClient) Version() (dockertypes.Version, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	return d.client.ServerVersion(ctx)
}

// ValidateTag verifies that tag is a well-formed Docker image reference. The
// default tag is the script's base file name, which docker rejects when it
// contains uppercase characters; validating up front fails the run before
// any network or subprocess work happens.
func ValidateTag(tag string) error {
	if _, err := reference.ParseNormalizedNamed(tag); err != nil {
		return errors.NewInvalidTagError(tag, err)
	}
	return nil
}
