package status

import (
	"github.com/dockerize/python-to-image/pkg/api"
)

const (
	// ReasonScanFailed is the reason associated with failing to read or scan
	// the target script.
	ReasonScanFailed        api.StepFailureReason  = "ScanFailed"
	ReasonMessageScanFailed api.StepFailureMessage = "Failed to scan script for imports"

	// ReasonStdlibEnumerationFailed is the reason associated with the
	// interpreter subprocess failing to enumerate standard modules.
	ReasonStdlibEnumerationFailed        api.StepFailureReason  = "StdlibEnumerationFailed"
	ReasonMessageStdlibEnumerationFailed api.StepFailureMessage = "Failed to enumerate standard-library modules"

	// ReasonRegistryLookupFailed is the reason associated with an aborted
	// package-existence lookup.
	ReasonRegistryLookupFailed        api.StepFailureReason  = "RegistryLookupFailed"
	ReasonMessageRegistryLookupFailed api.StepFailureMessage = "Package index lookup failed"

	// ReasonDockerfileCreateFailed is the reason associated with failing to
	// generate the Dockerfile.
	ReasonDockerfileCreateFailed        api.StepFailureReason  = "DockerfileCreateFailed"
	ReasonMessageDockerfileCreateFailed api.StepFailureMessage = "Failed to create Dockerfile"

	// ReasonDockerImageBuildFailed is the reason associated with a failed
	// Docker image build.
	ReasonDockerImageBuildFailed        api.StepFailureReason  = "DockerImageBuildFailed"
	ReasonMessageDockerImageBuildFailed api.StepFailureMessage = "Docker image build failed"

	// ReasonContainerRunFailed is the reason associated with the produced
	// image exiting with a non-zero code.
	ReasonContainerRunFailed        api.StepFailureReason  = "ContainerRunFailed"
	ReasonMessageContainerRunFailed api.StepFailureMessage = "Container terminated with non-zero exit code"

	// ReasonGenericBuildFailed is the reason associated with a broad range
	// of failures.
	ReasonGenericBuildFailed        api.StepFailureReason  = "GenericBuildFailed"
	ReasonMessageGenericBuildFailed api.StepFailureMessage = "Generic p2i failure - check the logs for details"
)

// NewFailureReason initializes a new failure reason that contains both the
// reason and a message to be displayed.
func NewFailureReason(reason api.StepFailureReason, message api.StepFailureMessage) api.FailureReason {
	return api.FailureReason{
		Reason:  reason,
		Message: message,
	}
}
