package frames

import (
	"context"
	"fmt"
	"time"

	"splice/internal/media/ffprobe"
	"splice/internal/services"
)

// ClipInfo is the subset of probe data the planner needs.
type ClipInfo struct {
	Path     string
	Width    int
	Height   int
	FPS      float64
	Duration time.Duration
}

// Prober inspects an input clip.
type Prober interface {
	Probe(ctx context.Context, path string) (ClipInfo, error)
}

// FFprobe probes clips with the ffprobe binary.
type FFprobe struct {
	Binary string
}

// Probe runs ffprobe against path and extracts the first video stream.
func (p FFprobe) Probe(ctx context.Context, path string) (ClipInfo, error) {
	result, err := ffprobe.Inspect(ctx, p.Binary, path)
	if err != nil {
		return ClipInfo{}, services.Wrap(services.ErrExternalTool, "init-frames", "probe clip", fmt.Sprintf("ffprobe could not read %s", path), err)
	}
	return clipInfoFromProbe(path, result)
}

func clipInfoFromProbe(path string, result ffprobe.Result) (ClipInfo, error) {
	video, ok := result.Video()
	if !ok {
		return ClipInfo{}, services.Wrap(services.ErrValidation, "init-frames", "probe clip", fmt.Sprintf("%s has no video stream", path), nil)
	}
	width, height := video.DisplaySize()
	if width <= 0 || height <= 0 {
		return ClipInfo{}, services.Wrap(services.ErrValidation, "init-frames", "probe clip", fmt.Sprintf("%s reports invalid dimensions %dx%d", path, width, height), nil)
	}
	duration := video.StreamDuration()
	if duration == 0 {
		duration = result.Duration()
	}
	return ClipInfo{
		Path:     path,
		Width:    width,
		Height:   height,
		FPS:      video.FrameRate(),
		Duration: duration,
	}, nil
}
