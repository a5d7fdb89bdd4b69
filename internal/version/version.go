// Package version holds build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version() // go version
)

// String renders the build metadata on one line.
func String() string {
	return fmt.Sprintf("sift %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
