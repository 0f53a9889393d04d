// Package build holds the build-time identity of the engine. The values are
// overridden at link time for release builds.
package build

var (
	// ProjectName is the namespace under which the engine emits telemetry.
	ProjectName = "quell"

	// Version is the release version of the engine.
	Version = "dev"

	// Commit is the git commit the engine was built from.
	Commit = ""
)
