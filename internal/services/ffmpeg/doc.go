// Package ffmpeg wraps the ffmpeg command-line tool for the frame extraction
// and transcoding engines.
//
// The CLI runner streams stdout line by line (where `-progress pipe:1` writes
// its key=value records), keeps a bounded tail of stderr for diagnostics, and
// reports failures as *ExitError so callers can surface what ffmpeg printed.
package ffmpeg
