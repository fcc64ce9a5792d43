package api

import (
	"fmt"
	"strings"
	"time"
)

// Config contains essential fields for performing a p2i run.
type Config struct {
	// ScriptPath is the path to the Python script to containerize.
	ScriptPath string

	// ScriptArgs are trailing arguments forwarded verbatim to `docker run`.
	ScriptArgs []string

	// Tag is the name of the resulting image. When empty, the script's base
	// file name is used.
	Tag string

	// PythonVersion selects the python base image tag used by the default
	// Dockerfile template.
	PythonVersion string

	// Interpreter is the local Python interpreter used to enumerate the
	// standard-library module names.
	Interpreter string

	// RegistryURL is the base URL of the package index queried for
	// package-existence checks.
	RegistryURL string

	// OnNetworkFailure controls how a registry lookup that fails at the
	// transport level is treated.
	OnNetworkFailure NetworkFailurePolicy

	// MappingsPath overrides the default location of the import-mappings
	// configuration file.
	MappingsPath string

	// Environment contains environment variables passed to the container
	// when the image is run.
	Environment EnvironmentList

	// EnvironmentFile provides the path to a file with environment
	// variables, merged into Environment.
	EnvironmentFile string

	// RunImage will run the produced image after a successful build.
	RunImage bool

	// Quiet suppresses all non-error output.
	Quiet bool

	// DockerConfig holds the configuration for the Docker daemon connection.
	DockerConfig *DockerConfig
}

// DockerConfig contains the configuration for a Docker connection.
type DockerConfig struct {
	// Endpoint is the docker network endpoint.
	Endpoint string

	// CertFile is the certificate file path for a TLS connection.
	CertFile string

	// KeyFile is the key file path for a TLS connection.
	KeyFile string

	// CAFile is the certificate authority file path for a TLS connection.
	CAFile string

	// UseTLS indicates if TLS must be used.
	UseTLS bool

	// TLSVerify indicates if TLS peer must be verified.
	TLSVerify bool
}

// NetworkFailurePolicy says how a package-existence lookup that fails at the
// network level (as opposed to a definitive "not found" response) should be
// interpreted.
type NetworkFailurePolicy string

const (
	// NetworkFailureAbsent treats an unreachable registry as "package does
	// not exist". This silently drops real dependencies during outages and
	// exists for compatibility with the historical behavior.
	NetworkFailureAbsent NetworkFailurePolicy = "absent"
	// NetworkFailurePresent records the candidate name despite the failed
	// lookup.
	NetworkFailurePresent NetworkFailurePolicy = "present"
	// NetworkFailureAbort fails the whole run on the first failed lookup.
	NetworkFailureAbort NetworkFailurePolicy = "abort"

	// DefaultNetworkFailurePolicy is the policy used when none is specified.
	DefaultNetworkFailurePolicy = NetworkFailureAbsent
)

// String implements the String() function of pflags.Value interface.
func (p *NetworkFailurePolicy) String() string {
	return string(*p)
}

// Set implements the Set() function of pflags.Value interface.
func (p *NetworkFailurePolicy) Set(v string) error {
	switch NetworkFailurePolicy(v) {
	case NetworkFailureAbsent, NetworkFailurePresent, NetworkFailureAbort:
		*p = NetworkFailurePolicy(v)
		return nil
	}
	return fmt.Errorf("invalid network-failure policy %q: valid policies are %q, %q or %q",
		v, NetworkFailureAbsent, NetworkFailurePresent, NetworkFailureAbort)
}

// Type implements the Type() function of pflags.Value interface.
func (p *NetworkFailurePolicy) Type() string {
	return "string"
}

// PythonImport is a single import declaration extracted from a script. An
// `import X` line produces Module="X"; a `from X import Y` line additionally
// sets Member="Y".
type PythonImport struct {
	Module string
	Member string
}

// Dotted returns the full dotted name of the import, or just the module name
// when no member is present.
func (i PythonImport) Dotted() string {
	if i.Member == "" {
		return i.Module
	}
	return i.Module + "." + i.Member
}

// EnvironmentSpec specifies a single environment variable.
type EnvironmentSpec struct {
	Name  string
	Value string
}

// EnvironmentList represents a list of environment variables.
type EnvironmentList []EnvironmentSpec

// String implements the String() function of pflags.Value interface.
func (e *EnvironmentList) String() string {
	result := []string{}
	for _, i := range *e {
		result = append(result, strings.Join([]string{i.Name, i.Value}, "="))
	}
	return strings.Join(result, ",")
}

// Set implements the Set() function of pflags.Value interface.
func (e *EnvironmentList) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 || len(parts[0]) == 0 {
		return fmt.Errorf("invalid environment format %q, must be NAME=VALUE", value)
	}
	*e = append(*e, EnvironmentSpec{
		Name:  strings.TrimSpace(parts[0]),
		Value: strings.TrimSpace(parts[1]),
	})
	return nil
}

// Type implements the Type() function of pflags.Value interface.
func (e *EnvironmentList) Type() string {
	return "string"
}

// AsArgs converts the list into interleaved "-e" "NAME=VALUE" docker CLI
// arguments.
func (e EnvironmentList) AsArgs() []string {
	result := []string{}
	for _, i := range e {
		result = append(result, "-e", fmt.Sprintf("%s=%s", i.Name, i.Value))
	}
	return result
}

// Result structure contains information from a p2i run.
type Result struct {
	// Success describes whether the run was successful.
	Success bool

	// Messages is a list of messages from the run process.
	Messages []string

	// Tag is the name of the image the run produced.
	Tag string

	// DockerfilePath is the location of the generated Dockerfile.
	DockerfilePath string

	// Dependencies is the final, deduplicated and remapped module list
	// substituted into the Dockerfile.
	Dependencies []string

	// BuildInfo holds information about the run stages and any failure.
	BuildInfo BuildInfo
}

// BuildInfo contains information about the run process.
type BuildInfo struct {
	// Stages contains details about each stage of the run.
	Stages []StageInfo

	// FailureReason is a camel case reason that is used by the machine to
	// reply back to the caller with a specific failure message.
	FailureReason FailureReason
}

// StageInfo contains details about a run stage.
type StageInfo struct {
	// Name is the identifier for each run stage.
	Name StageName

	// StartTime identifies when this stage started.
	StartTime time.Time

	// DurationMilliseconds identifies how long this stage ran.
	DurationMilliseconds int64

	// Steps contains details about each step within a run stage.
	Steps []StepInfo
}

// StageName is the identifier for each run stage.
type StageName string

// Valid run stage names.
const (
	// StageScan is the stage where the script is scanned for imports.
	StageScan StageName = "Scan"
	// StageClassify is the stage where the standard-library module set is
	// enumerated.
	StageClassify StageName = "Classify"
	// StageVerify is the stage where candidate packages are checked against
	// the registry.
	StageVerify StageName = "Verify"
	// StageGenerate is the stage where the Dockerfile is generated.
	StageGenerate StageName = "Generate"
	// StageBuild is the stage where the image is built.
	StageBuild StageName = "Build"
	// StageRun is the stage where the image is run.
	StageRun StageName = "Run"
)

// StepInfo contains details about a run step.
type StepInfo struct {
	// Name is the identifier for each step within a run stage.
	Name StepName

	// StartTime identifies when this step started.
	StartTime time.Time

	// DurationMilliseconds identifies how long this step ran.
	DurationMilliseconds int64
}

// StepName is the identifier for each step within a run stage.
type StepName string

// Valid run step names.
const (
	// StepExtractImports covers reading the script and extracting imports.
	StepExtractImports StepName = "ExtractImports"
	// StepEnumerateStdlib covers the interpreter subprocess call.
	StepEnumerateStdlib StepName = "EnumerateStdlib"
	// StepRegistryLookups covers all package-existence queries.
	StepRegistryLookups StepName = "RegistryLookups"
	// StepGenerateDockerfile covers template loading and substitution.
	StepGenerateDockerfile StepName = "GenerateDockerfile"
	// StepDockerBuild covers the `docker build` subprocess.
	StepDockerBuild StepName = "DockerBuild"
	// StepDockerRun covers the `docker run` subprocess.
	StepDockerRun StepName = "DockerRun"
)

// StepFailureReason is a camel case reason identifying why a step failed.
type StepFailureReason string

// StepFailureMessage is a human readable message stating why a step failed.
type StepFailureMessage string

// FailureReason contains the reason why a run failed.
type FailureReason struct {
	// Reason is the brief and machine friendly cause of the run failure.
	Reason StepFailureReason

	// Message is the human friendly cause of the run failure.
	Message StepFailureMessage
}
