package stage

import (
	"context"
	"time"
)

// Names of the three pipeline stages as they appear in logs and timers.
const (
	NameInitFrames     = "init-frames"
	NameRenderFrames   = "render-frames"
	NameTranscodeVideo = "transcode-video"
)

// Transition selects an effect applied across a clip boundary.
type Transition struct {
	Name     string        `json:"name" toml:"name"`
	Duration time.Duration `json:"duration" toml:"duration"`
}

// IsCut reports whether t describes a hard cut.
func (t Transition) IsCut() bool {
	return t.Name == "" || t.Duration <= 0
}

// Frame is one output frame instruction.
type Frame struct {
	Index int `json:"index"`
	// Current is the source frame of the outgoing clip.
	Current string `json:"current"`
	// Next is the incoming clip's frame during a transition.
	Next       string  `json:"next,omitempty"`
	Transition string  `json:"transition,omitempty"`
	Progress   float64 `json:"progress,omitempty"`
}

// FramePlan is the ordered list of output frames.
type FramePlan []Frame

// Theme is the resolved run-wide configuration shared by rendering and
// transcoding.
type Theme struct {
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	FPS         float64       `json:"fps"`
	FrameFormat string        `json:"frame_format"`
	NumFrames   int           `json:"num_frames"`
	Duration    time.Duration `json:"duration"`
	// Transitions holds the resolved transition per clip boundary.
	Transitions []Transition `json:"transitions,omitempty"`
}

// InitRequest is the frame-initialization input.
type InitRequest struct {
	Videos      []string
	Transition  *Transition
	Transitions []Transition
	Concurrency int
	OutputDir   string
	FrameFormat string
}

// InitResult is the frame-initialization output.
type InitResult struct {
	Frames FramePlan
	Theme  Theme
}

// RenderRequest is the frame-rendering input.
type RenderRequest struct {
	OutputDir   string
	FrameFormat string
	Frames      FramePlan
	Theme       Theme
	Concurrency int
	OnProgress  func(float64)
}

// TranscodeRequest is the transcoding input.
type TranscodeRequest struct {
	FramePattern string
	FrameFormat  string
	Audio        string
	Output       string
	Theme        Theme
	OnProgress   func(float64)
}

// Health is an engine's readiness as reported to doctor.
type Health struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

func Healthy(name string) Health { return Health{Name: name, Ready: true} }

func Unhealthy(name, detail string) Health { return Health{Name: name, Detail: detail} }

// Unready returns the entries in hs that are not ready.
func Unready(hs []Health) []Health {
	var out []Health
	for _, h := range hs {
		if !h.Ready {
			out = append(out, h)
		}
	}
	return out
}

// FrameInitializer plans output frames from the input clips.
type FrameInitializer interface {
	InitFrames(ctx context.Context, req InitRequest) (InitResult, error)
	HealthCheck(ctx context.Context) Health
}

// FrameRenderer materializes a frame plan and returns the frame pattern.
type FrameRenderer interface {
	RenderFrames(ctx context.Context, req RenderRequest) (string, error)
	HealthCheck(ctx context.Context) Health
}

// Transcoder encodes the rendered frames into the output file.
type Transcoder interface {
	Transcode(ctx context.Context, req TranscodeRequest) error
	HealthCheck(ctx context.Context) Health
}

// Report forwards fraction to fn when fn is set.
func Report(fn func(float64), fraction float64) {
	if fn != nil {
		fn(fraction)
	}
}
