package build

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dockerize/python-to-image/pkg/api"
	"github.com/dockerize/python-to-image/pkg/test"
	"github.com/dockerize/python-to-image/pkg/util"
)

// newFixture prepares a script on disk, a fake package index knowing the
// given packages, and a fake interpreter reporting os and sys as standard
// modules.
func newFixture(t *testing.T, source string, packages ...string) (*api.Config, *test.FakeCommandRunner) {
	t.Helper()

	dir := t.TempDir()
	script := filepath.Join(dir, "app.py")
	if err := os.WriteFile(script, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}

	known := map[string]bool{}
	for _, p := range packages {
		known[p] = true
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/pypi/"), "/json")
		if !known[name] {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	runner := &test.FakeCommandRunner{
		OnRun: func(opts util.CommandOpts, name string, args ...string) error {
			if name != "docker" {
				fmt.Fprintln(opts.Stdout, "os")
				fmt.Fprintln(opts.Stdout, "sys")
			}
			return nil
		},
	}

	return &api.Config{
		ScriptPath:       script,
		Tag:              "app.py",
		PythonVersion:    "3.10",
		RegistryURL:      server.URL,
		OnNetworkFailure: api.DefaultNetworkFailurePolicy,
		MappingsPath:     filepath.Join(dir, "no-config.yaml"),
	}, runner
}

func newBuilder(t *testing.T, cfg *api.Config, runner *test.FakeCommandRunner) *Builder {
	t.Helper()
	builder, err := New(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	builder.runner = runner
	return builder
}

func TestBuild(t *testing.T) {
	source := "import os\nimport requests\nfrom sklearn import svm\n"
	cfg, runner := newFixture(t, source, "requests", "sklearn.svm")
	builder := newBuilder(t, cfg, runner)

	result, err := builder.Build(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Error("expected a successful result")
	}

	expected := []string{"requests", "sklearn.svm"}
	if !reflect.DeepEqual(result.Dependencies, expected) {
		t.Errorf("Unexpected dependencies. Expected: %v. Actual: %v", expected, result.Dependencies)
	}

	data, err := os.ReadFile(result.DockerfilePath)
	if err != nil {
		t.Fatalf("expected a generated Dockerfile: %v", err)
	}
	if !strings.Contains(string(data), "RUN pip install requests sklearn.svm") {
		t.Errorf("unexpected Dockerfile content:\n%s", data)
	}

	last := runner.Invocations[len(runner.Invocations)-1]
	if last.Name != "docker" {
		t.Fatalf("expected a docker invocation, got %q", last.Name)
	}
	expectedArgs := []string{"build", "-t", "app.py", filepath.Dir(cfg.ScriptPath)}
	if !reflect.DeepEqual(last.Args, expectedArgs) {
		t.Errorf("Unexpected docker args. Expected: %v. Actual: %v", expectedArgs, last.Args)
	}

	buildKit := false
	for _, e := range last.Opts.Env {
		if e == "DOCKER_BUILDKIT=1" {
			buildKit = true
		}
	}
	if !buildKit {
		t.Error("expected DOCKER_BUILDKIT=1 in the build environment")
	}
}

func TestBuildRootModuleFallback(t *testing.T) {
	// the index knows requests and the root numpy, but not numpy.random
	cfg, runner := newFixture(t, "import requests\nfrom numpy import random\n", "requests", "numpy")
	builder := newBuilder(t, cfg, runner)

	result, err := builder.Build(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"numpy", "requests"}
	if !reflect.DeepEqual(result.Dependencies, expected) {
		t.Errorf("Unexpected dependencies. Expected: %v. Actual: %v", expected, result.Dependencies)
	}
}

func TestBuildDeduplicatesImports(t *testing.T) {
	cfg, runner := newFixture(t, "import requests\nimport requests\n", "requests")
	builder := newBuilder(t, cfg, runner)

	result, err := builder.Build(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Dependencies, []string{"requests"}) {
		t.Errorf("Unexpected dependencies: %v", result.Dependencies)
	}
}

func TestBuildAppliesMappings(t *testing.T) {
	cfg, runner := newFixture(t, "import cv2\n", "cv2")
	mappings := filepath.Join(t.TempDir(), "config.yaml")
	content := "defaults:\n  import-mappings:\n    cv2: opencv-python\n"
	if err := os.WriteFile(mappings, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.MappingsPath = mappings
	builder := newBuilder(t, cfg, runner)

	result, err := builder.Build(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.Dependencies, []string{"opencv-python"}) {
		t.Errorf("Unexpected dependencies: %v", result.Dependencies)
	}
}

func TestBuildDockerFailure(t *testing.T) {
	cfg, runner := newFixture(t, "import requests\n", "requests")
	runner.OnRun = func(opts util.CommandOpts, name string, args ...string) error {
		if name == "docker" {
			return fmt.Errorf("exit status 1")
		}
		fmt.Fprintln(opts.Stdout, "os")
		return nil
	}
	builder := newBuilder(t, cfg, runner)

	result, err := builder.Build(cfg)
	if err == nil {
		t.Fatal("expected an error from a failing docker build")
	}
	if result.Success {
		t.Error("expected an unsuccessful result")
	}
	if result.BuildInfo.FailureReason.Reason != "DockerImageBuildFailed" {
		t.Errorf("Unexpected failure reason: %v", result.BuildInfo.FailureReason)
	}
}

func TestGenerateDoesNotInvokeDocker(t *testing.T) {
	cfg, runner := newFixture(t, "import requests\n", "requests")
	builder := newBuilder(t, cfg, runner)

	result, err := builder.Generate(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DockerfilePath == "" {
		t.Error("expected a Dockerfile location in the result")
	}
	for _, inv := range runner.Invocations {
		if inv.Name == "docker" {
			t.Errorf("generate must not invoke docker, got: %v", runner.CommandLines())
		}
	}
}

func TestBuildRecordsStages(t *testing.T) {
	cfg, runner := newFixture(t, "import requests\n", "requests")
	builder := newBuilder(t, cfg, runner)

	result, err := builder.Build(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[api.StageName]bool{}
	for _, stage := range result.BuildInfo.Stages {
		seen[stage.Name] = true
	}
	for _, name := range []api.StageName{api.StageScan, api.StageClassify, api.StageVerify, api.StageGenerate, api.StageBuild} {
		if !seen[name] {
			t.Errorf("expected stage %s to be recorded, got %v", name, result.BuildInfo.Stages)
		}
	}
}

func TestDefaultTag(t *testing.T) {
	if tag := DefaultTag("/some/dir/app.py"); tag != "app.py" {
		t.Errorf("Unexpected result: %q", tag)
	}
}
