// Package concat turns a list of clips into one video by running three
// engines in order: frame initialization, frame rendering and transcoding.
//
// Pipeline.Run owns the run's workspace. It creates the workspace before the
// first stage and, unless KeepFrames is set, removes it on every exit path.
// The concurrency budget goes unchanged to the first two stages, and each
// stage's fractional progress reaches the caller's Sink as "<stage> <pct>%".
// A failing stage stops the run. Run then returns that stage's *EngineError
// value itself, without further wrapping, so callers keep the engine's
// diagnostics. Cleanup problems are logged as warnings and never replace the
// run's outcome.
//
// Stages never overlap, and Run adds no timeout or cancellation of its own.
// The context is handed to every engine, which may honour it.
package concat
