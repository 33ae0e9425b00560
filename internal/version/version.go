// Package version holds build metadata injected at link time.
package version

// Set via -ldflags "-X github.com/rkorrapolu/sye-agent/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
