package version

import "fmt"

const (
	AppName        = "Ippo"
	AppDescription = "A moderation bot for Discord servers."
)

// Set at build time with -ldflags "-X ippo/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String returns a one-line build description.
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", AppName, Version, Commit, BuildDate)
}
