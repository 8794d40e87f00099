// Package version reports build metadata stamped in at link time
package version

// BuildInfo is the build metadata served by /meta/version
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the stamped values. Set them with
// -ldflags "-X followstats/internal/core/version.version=v0.1.0 -X followstats/internal/core/version.commit=abcd"
func Info() BuildInfo {
	return BuildInfo{
		Service: Service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// Service is the API service name
const Service = "followstats-api"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
