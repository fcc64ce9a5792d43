// Package build implements the p2i pipeline: scan the script, classify and
// verify its imports, generate a Dockerfile and build the image with the
// docker CLI.
package build

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dockerize/python-to-image/pkg/api"
	p2iconfig "github.com/dockerize/python-to-image/pkg/config"
	"github.com/dockerize/python-to-image/pkg/dockerfile"
	"github.com/dockerize/python-to-image/pkg/errors"
	"github.com/dockerize/python-to-image/pkg/python"
	"github.com/dockerize/python-to-image/pkg/registry"
	"github.com/dockerize/python-to-image/pkg/scan"
	"github.com/dockerize/python-to-image/pkg/util"
	utillog "github.com/dockerize/python-to-image/pkg/util/log"
	"github.com/dockerize/python-to-image/pkg/util/status"
)

var log = utillog.StderrLog

// Builder turns a Python script into a Docker image. The pipeline is a
// straight line; no step is retried or rolled back, and the first failure
// stops the run.
type Builder struct {
	runner   util.CommandRunner
	registry *registry.Client
	mappings p2iconfig.Mappings
}

// New creates a Builder for the given configuration. The import-mappings
// file is loaded here so a malformed file fails before any network work.
func New(config *api.Config) (*Builder, error) {
	mappings, err := p2iconfig.LoadMappings(config.MappingsPath)
	if err != nil {
		return nil, err
	}
	return &Builder{
		runner:   util.NewCommandRunner(),
		registry: registry.New(config),
		mappings: mappings,
	}, nil
}

// DefaultTag returns the image tag used when none is given: the script's
// base file name.
func DefaultTag(scriptPath string) string {
	return filepath.Base(scriptPath)
}

// Generate runs the pipeline up to and including Dockerfile generation. The
// returned result carries the final dependency list and the Dockerfile
// location.
func (b *Builder) Generate(config *api.Config) (*api.Result, error) {
	result := &api.Result{Tag: config.Tag}
	if err := b.generate(config, result); err != nil {
		return result, err
	}
	result.Success = true
	return result, nil
}

// Build runs the full pipeline: Generate followed by `docker build`.
func (b *Builder) Build(config *api.Config) (*api.Result, error) {
	result := &api.Result{Tag: config.Tag}

	if err := b.generate(config, result); err != nil {
		return result, err
	}

	startTime := time.Now()
	err := b.dockerBuild(config)
	result.BuildInfo.Stages = api.RecordStageAndStepInfo(result.BuildInfo.Stages, api.StageBuild, api.StepDockerBuild, startTime, time.Now())
	if err != nil {
		result.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonDockerImageBuildFailed, status.ReasonMessageDockerImageBuildFailed)
		return result, err
	}

	result.Success = true
	result.Messages = append(result.Messages, "Image "+config.Tag+" built successfully")
	return result, nil
}

// generate performs scan, classify, verify, dedupe, remap and Dockerfile
// generation, recording stage timings and failure reasons on result.
func (b *Builder) generate(config *api.Config, result *api.Result) error {
	scriptDir, scriptName, err := splitScriptPath(config.ScriptPath)
	if err != nil {
		result.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonScanFailed, status.ReasonMessageScanFailed)
		return err
	}

	startTime := time.Now()
	imports, err := scan.File(config.ScriptPath)
	result.BuildInfo.Stages = api.RecordStageAndStepInfo(result.BuildInfo.Stages, api.StageScan, api.StepExtractImports, startTime, time.Now())
	if err != nil {
		result.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonScanFailed, status.ReasonMessageScanFailed)
		return err
	}

	startTime = time.Now()
	stdlib, err := python.StdlibModules(b.runner, config.Interpreter)
	result.BuildInfo.Stages = api.RecordStageAndStepInfo(result.BuildInfo.Stages, api.StageClassify, api.StepEnumerateStdlib, startTime, time.Now())
	if err != nil {
		result.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonStdlibEnumerationFailed, status.ReasonMessageStdlibEnumerationFailed)
		return err
	}

	startTime = time.Now()
	verified, err := b.registry.ResolveAll(imports, stdlib)
	result.BuildInfo.Stages = api.RecordStageAndStepInfo(result.BuildInfo.Stages, api.StageVerify, api.StepRegistryLookups, startTime, time.Now())
	if err != nil {
		result.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonRegistryLookupFailed, status.ReasonMessageRegistryLookupFailed)
		return err
	}

	modules := b.mappings.Apply(util.SortedUnique(verified))
	result.Dependencies = modules
	log.V(1).Infof("Resolved dependencies: %v", modules)

	startTime = time.Now()
	path, err := dockerfile.Generate(scriptDir, scriptName, config.PythonVersion, modules)
	result.BuildInfo.Stages = api.RecordStageAndStepInfo(result.BuildInfo.Stages, api.StageGenerate, api.StepGenerateDockerfile, startTime, time.Now())
	if err != nil {
		result.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonDockerfileCreateFailed, status.ReasonMessageDockerfileCreateFailed)
		return err
	}
	result.DockerfilePath = path

	return nil
}

// dockerBuild shells out to `docker build` with BuildKit enabled, passing
// the build output through to the caller's streams.
func (b *Builder) dockerBuild(config *api.Config) error {
	scriptDir, _, err := splitScriptPath(config.ScriptPath)
	if err != nil {
		return err
	}

	var stdout io.Writer = os.Stdout
	if config.Quiet {
		stdout = io.Discard
	}

	log.V(0).Infof("Building image %q from %s", config.Tag, scriptDir)
	opts := util.CommandOpts{
		Stdout: stdout,
		Stderr: os.Stderr,
		Env:    append(os.Environ(), "DOCKER_BUILDKIT=1"),
	}
	err = b.runner.RunWithOptions(opts, "docker", "build", "-t", config.Tag, scriptDir)
	if err != nil {
		return errors.NewBuildError(config.Tag, util.CommandExitCode(err), err)
	}
	return nil
}

// splitScriptPath returns the directory containing the script and its base
// file name.
func splitScriptPath(scriptPath string) (string, string, error) {
	name := filepath.Base(scriptPath)
	if name == "." || name == string(filepath.Separator) {
		return "", "", errors.NewScriptPathError(scriptPath)
	}
	dir := filepath.Dir(scriptPath)
	return dir, name, nil
}
