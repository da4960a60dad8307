// Package version provides centralized version information for cm.
package version

// Version can be overridden at build time using ldflags:
// go build -ldflags "-X cm/internal/version.Version=1.2.3"
var Version = "0.3.0"
