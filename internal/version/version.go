// Package version provides build and version information for Channel Viz.
package version

// Version is the current release version of Channel Viz.
// This can be overridden at build time using:
//
//	go build -ldflags "-X github.com/akoul99/channel-viz/internal/version.Version=x.y.z"
var Version = "1.0.0"
