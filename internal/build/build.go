// Package build holds build information populated at link time via
// -ldflags, e.g.:
//
//	go build -ldflags "-X github.com/Shobhakumari0502/VirtualClient/internal/build.ReleaseVersion=1.0.0"
package build

import "runtime"

var (
	ReleaseVersion = "UNKNOWN"
	GitCommit      = "UNKNOWN"
	BuildTime      = "UNKNOWN"
	GoVersion      = runtime.Version()
)
