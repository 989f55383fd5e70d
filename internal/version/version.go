// Package version holds build metadata injected via ldflags:
//
//	-X github.com/techstore/catalogqa/internal/version.Version=v1.2.0
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for --version output and startup logs.
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
