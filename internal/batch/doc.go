// Package batch runs many concat jobs described by a TOML manifest.
//
// Jobs run concurrently up to a limit. Each job is an independent pipeline
// run with its own workspace, timers and progress reporters; a failing job
// does not stop the others. Relative paths in a manifest resolve against the
// manifest's directory.
package batch
