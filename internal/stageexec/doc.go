// Package stageexec runs a single pipeline stage with consistent timing and
// structured stage_start, stage_complete and stage_failure log events.
package stageexec
