package concat

import (
	"context"

	"splice/internal/progress"
	"splice/internal/stage"
)

// engineFailure labels err with the failing stage. An engine that already
// returns *EngineError gets its value passed through as-is.
func engineFailure(stageName string, err error) error {
	if engineErr, ok := err.(*EngineError); ok {
		return engineErr
	}
	return &EngineError{Stage: stageName, Err: err}
}

func (r *run) initFrames(ctx context.Context) (stage.InitResult, error) {
	result, err := r.pipeline.engines.Initializer.InitFrames(ctx, stage.InitRequest{
		Videos:      r.opts.Videos,
		Transition:  r.opts.Transition,
		Transitions: r.opts.Transitions,
		Concurrency: r.opts.Concurrency,
		OutputDir:   r.ws.Path,
		FrameFormat: r.opts.FrameFormat,
	})
	if err != nil {
		return stage.InitResult{}, engineFailure(stage.NameInitFrames, err)
	}
	return result, nil
}

func (r *run) renderFrames(ctx context.Context, init stage.InitResult) (string, error) {
	reporter := progress.NewReporter(ProgressRender, r.sink)
	pattern, err := r.pipeline.engines.Renderer.RenderFrames(ctx, stage.RenderRequest{
		OutputDir:   r.ws.Path,
		FrameFormat: r.opts.FrameFormat,
		Frames:      init.Frames,
		Theme:       init.Theme,
		Concurrency: r.opts.Concurrency,
		OnProgress:  reporter.Func(),
	})
	if err != nil {
		return "", engineFailure(stage.NameRenderFrames, err)
	}
	return pattern, nil
}

func (r *run) transcode(ctx context.Context, pattern string, theme stage.Theme) error {
	reporter := progress.NewReporter(ProgressTranscode, r.sink)
	err := r.pipeline.engines.Transcoder.Transcode(ctx, stage.TranscodeRequest{
		FramePattern: pattern,
		FrameFormat:  r.opts.FrameFormat,
		Audio:        r.opts.Audio,
		Output:       r.opts.Output,
		Theme:        theme,
		OnProgress:   reporter.Func(),
	})
	if err != nil {
		return engineFailure(stage.NameTranscodeVideo, err)
	}
	return nil
}
