package version

import "fmt"

// these values are set via ldflags during build
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "unknown"
)

var FullVersion = fmt.Sprintf("%s (commit %s, built %s by %s)", Version, Commit, Date, BuiltBy)
