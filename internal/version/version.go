// Package version carries build metadata injected via -ldflags.
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Full returns the human-readable version line.
func Full() string {
	return fmt.Sprintf("meetscribe %s, commit %s, built at %s", Version, Commit, Date)
}
