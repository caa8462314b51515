// Package preflight provides readiness checks for the external tools and
// filesystem paths that splice depends on.
//
// The CLI "splice doctor" command runs RunAll and CheckSystemDeps to show
// whether ffmpeg, ffprobe and the configured directories are usable before a
// long render starts. The default engines reuse the binary checks for their
// HealthCheck methods.
package preflight
