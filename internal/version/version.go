// Package version holds reviewdex build metadata injected via ldflags.
package version

// Set at build time, e.g.:
//
//	go build -ldflags "-X github.com/roamstay/reviewdex/internal/version.Version=v1.2.0"
//
//nolint:revive
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
