// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Gaia BP magnitudes and per-target noise estimate, JSON schedules
// 0.2.0 - Horizon profiles, twilight flats, bubbletea altitude browser
// 0.1.0 - Initial release: site registry, night grid, target visibility windows
