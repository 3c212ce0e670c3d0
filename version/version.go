// Package version exposes the build version stamped in at link time.
package version

import "runtime"

// Version is overridden at build time via
// -ldflags "-X github.com/mowziolabs/mowzio/version.Version=v1.2.3".
var Version = "dev"

// Get returns the bare version string.
func Get() string { return Version }

// Full returns the version with the Go runtime it was built with.
func Full() string { return Version + " (" + runtime.Version() + ")" }
