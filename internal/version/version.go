package version

import (
	"runtime"
)

// These variables are set at build time via -ldflags
var (
	// Version represents the application version (from git tags)
	Version = "dev"
	// CommitID is the git commit hash
	CommitID = "unknown"
	// BuildTime is the time when the binary was built
	BuildTime = "unknown"
)

// ClientInfo returns structured client version information.
func ClientInfo() map[string]string {
	return map[string]string{
		"Version":   Version,
		"GitCommit": CommitID,
		"BuildTime": BuildTime,
		"GoVersion": runtime.Version(),
		"OS":        runtime.GOOS,
		"Arch":      runtime.GOARCH,
	}
}
