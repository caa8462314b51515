// Package frames implements the frame-initialization stage.
//
// It probes every input clip with ffprobe, derives the run's Theme from the
// first clip, extracts each clip into numbered frame files inside the
// workspace with ffmpeg, and plans the output sequence. BuildPlan is pure:
// given per-clip frame counts and per-boundary overlaps it returns the
// ordered frame instructions, so the plan arithmetic is testable without any
// external tools.
package frames
