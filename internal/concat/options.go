package concat

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"splice/internal/progress"
	"splice/internal/stage"
)

const (
	// DefaultConcurrency applies when Options.Concurrency is zero.
	DefaultConcurrency = 4
	// DefaultFrameFormat applies when Options.FrameFormat is empty.
	DefaultFrameFormat = "raw"
)

// FrameFormats lists the frame storage formats a run accepts.
var FrameFormats = []string{"raw", "png"}

// Options are the settings of one run. Run takes them by value, so they
// cannot change while the run is in progress.
type Options struct {
	// RunID identifies the run in logs and reports. Generated when empty.
	RunID string
	// Videos are the input clips, in output order. Required.
	Videos []string
	// Output is the destination file. Required.
	Output string
	// Transition applies at every boundary without a per-boundary entry.
	Transition *stage.Transition
	// Transitions[i] applies between Videos[i] and Videos[i+1].
	Transitions []stage.Transition
	// Audio is an optional audio track merged while transcoding.
	Audio string
	// Concurrency bounds per-frame parallelism in the first two stages.
	Concurrency int
	FrameFormat string
	// WorkingDir is the workspace base. Empty uses the system temp directory.
	WorkingDir string
	// KeepFrames leaves the workspace on disk after the run.
	KeepFrames bool
	// Log receives progress and timing lines.
	Log    progress.Sink
	Logger *slog.Logger
}

func (o Options) resolve() (Options, error) {
	if len(o.Videos) == 0 {
		return o, &ConfigError{Field: "videos", Reason: "at least one input clip is required"}
	}
	videos := make([]string, len(o.Videos))
	for i, video := range o.Videos {
		video = strings.TrimSpace(video)
		if video == "" {
			return o, &ConfigError{Field: "videos", Reason: fmt.Sprintf("clip %d has an empty path", i)}
		}
		videos[i] = video
	}
	o.Videos = videos

	o.Output = strings.TrimSpace(o.Output)
	if o.Output == "" {
		return o, &ConfigError{Field: "output", Reason: "output path is required"}
	}
	output, err := filepath.Abs(o.Output)
	if err != nil {
		return o, &ConfigError{Field: "output", Reason: err.Error()}
	}
	o.Output = output

	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Concurrency < 1 {
		return o, &ConfigError{Field: "concurrency", Reason: fmt.Sprintf("must be at least 1, got %d", o.Concurrency)}
	}

	o.FrameFormat = strings.ToLower(strings.TrimSpace(o.FrameFormat))
	if o.FrameFormat == "" {
		o.FrameFormat = DefaultFrameFormat
	}
	if !slices.Contains(FrameFormats, o.FrameFormat) {
		return o, &ConfigError{Field: "frame_format", Reason: fmt.Sprintf("must be one of %v, got %q", FrameFormats, o.FrameFormat)}
	}

	if o.Transition != nil && o.Transition.Duration < 0 {
		return o, &ConfigError{Field: "transition", Reason: "duration must not be negative"}
	}
	for i, t := range o.Transitions {
		if t.Duration < 0 {
			return o, &ConfigError{Field: "transitions", Reason: fmt.Sprintf("boundary %d duration must not be negative", i)}
		}
	}
	if len(o.Transitions) > 0 {
		o.Transitions = slices.Clone(o.Transitions)
	}
	if o.Transition != nil {
		global := *o.Transition
		o.Transition = &global
	}

	o.Audio = strings.TrimSpace(o.Audio)
	o.WorkingDir = strings.TrimSpace(o.WorkingDir)
	o.Log = o.Log.OrNop()
	return o, nil
}
