// Package run supports running images produced by p2i.
package run

import (
	"os"

	"github.com/dockerize/python-to-image/pkg/api"
	"github.com/dockerize/python-to-image/pkg/errors"
	"github.com/dockerize/python-to-image/pkg/util"
	utillog "github.com/dockerize/python-to-image/pkg/util/log"
)

var log = utillog.StderrLog

// A DockerRunner runs a produced image as a new container with the docker
// CLI, forwarding the configured script arguments and environment. The
// container's streams are attached to the caller's stdin/stdout/stderr and
// are not captured.
type DockerRunner struct {
	runner util.CommandRunner
}

// New creates a DockerRunner for the given configuration.
func New(config *api.Config) (*DockerRunner, error) {
	return &DockerRunner{runner: util.NewCommandRunner()}, nil
}

// Run invokes `docker run` with the image tag from config, any -e
// environment pairs, and the trailing script arguments verbatim. A non-zero
// container exit surfaces as a ContainerError carrying the exit code.
func (r *DockerRunner) Run(config *api.Config) error {
	args := []string{"run"}
	args = append(args, config.Environment.AsArgs()...)
	args = append(args, config.Tag)
	args = append(args, config.ScriptArgs...)

	log.V(1).Infof("Running image %q", config.Tag)
	opts := util.CommandOpts{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
	}
	if err := r.runner.RunWithOptions(opts, "docker", args...); err != nil {
		return errors.NewContainerError(config.Tag, util.CommandExitCode(err), "")
	}
	return nil
}
