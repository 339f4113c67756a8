package api

import (
	"runtime"
)

// Build metadata, set with -ldflags "-X .../internal/api.Version=..."
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// APIVersion is the read API version
const APIVersion = "v1"

// VersionInfo represents version information
// @Description Application and API version information
type VersionInfo struct {
	API     string `json:"api_version" example:"v1"`
	App     string `json:"app_version" example:"1.0.0"`
	Build   string `json:"build_time" example:"2024-05-01T10:00:00Z"`
	Commit  string `json:"git_commit" example:"abc123d"`
	Runtime string `json:"go_version" example:"go1.24.6"`
} // @name VersionInfo

// GetVersion returns version information
func GetVersion() VersionInfo {
	return VersionInfo{
		API:     APIVersion,
		App:     Version,
		Build:   BuildTime,
		Commit:  GitCommit,
		Runtime: runtime.Version(),
	}
}
