// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent identifies contentdex in outbound requests, e.g. "contentdex/1.4.0".
func UserAgent() string {
	return "contentdex/" + Version
}
