package version

import "fmt"

var (
	// Version is the tool version, injected at build time with
	// -ldflags "-X .../pkg/version.Version=...".
	Version = "unknown"
	// GitCommit is the git commit the binary was built from.
	GitCommit = "unknown"
)

// Get returns the version string reported by `p2i version`.
func Get() string {
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
