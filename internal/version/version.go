// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - HTTP API, Prometheus metrics, alignment records
// 0.2.0 - Live guidance TUI, sensor streams, obstacle detection
// 0.1.0 - Initial release: look angles, refraction, satellite catalog
