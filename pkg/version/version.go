// Package version exposes build metadata for the zerodesign binary.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build metadata, overridden at link time via -ldflags "-X".
//
//nolint:gochecknoglobals // Populated by the linker.
var (
	version   = "0.3.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the semantic version string of the binary.
func GetVersion() string {
	return version
}

// GetGitCommit returns the git commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// Parsed returns the binary version as a semver.Version.
// Unparseable development builds are reported as 0.0.0.
func Parsed() *semver.Version {
	v, err := semver.NewVersion(version)
	if err != nil {
		return semver.MustParse("0.0.0")
	}
	return v
}

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("zerodesign %s (commit %s, built %s, %s/%s)",
		version, gitCommit, buildDate, runtime.GOOS, runtime.GOARCH)
}
