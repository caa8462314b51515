// Package progress carries human-readable status lines from the pipeline to
// whoever started it.
//
// A Sink is a plain callback. Reporter turns a stage's fractional progress
// into "<stage> <pct>%" lines, and Timer measures a named span and reports
// "<name>: <elapsed>" once. Timers are values owned by a single run, so
// pipelines running side by side in one process never share timing state.
package progress
