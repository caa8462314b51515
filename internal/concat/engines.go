package concat

import (
	"log/slog"
	"time"

	"splice/internal/config"
	"splice/internal/frames"
	"splice/internal/render"
	"splice/internal/services/ffmpeg"
	"splice/internal/stage"
	"splice/internal/transcode"
)

// DefaultEngines wires the ffmpeg-backed engines from configuration.
func DefaultEngines(cfg *config.Config, logger *slog.Logger) Engines {
	runner := ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.FFmpeg.FFmpegBinary))
	return Engines{
		Initializer: frames.New(frames.Options{
			FFmpegBinary:  cfg.FFmpeg.FFmpegBinary,
			FFprobeBinary: cfg.FFmpeg.FFprobeBinary,
			Runner:        runner,
			Logger:        logger,
		}),
		Renderer: render.New(render.Options{Logger: logger}),
		Transcoder: transcode.New(transcode.Options{
			FFmpegBinary: cfg.FFmpeg.FFmpegBinary,
			Runner:       runner,
			Settings: transcode.Settings{
				VideoCodec:   cfg.FFmpeg.VideoCodec,
				Preset:       cfg.FFmpeg.Preset,
				CRF:          cfg.FFmpeg.CRF,
				PixelFormat:  cfg.FFmpeg.PixelFormat,
				AudioCodec:   cfg.FFmpeg.AudioCodec,
				AudioBitrate: cfg.FFmpeg.AudioBitrate,
			},
			Logger: logger,
		}),
	}
}

// OptionsFromConfig returns run options seeded with the configured defaults.
// Callers fill in Videos, Output and any per-run overrides.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Concurrency: cfg.Pipeline.Concurrency,
		FrameFormat: cfg.Pipeline.FrameFormat,
		WorkingDir:  cfg.Paths.WorkspaceDir,
		KeepFrames:  !cfg.Pipeline.CleanupFrames,
	}
	if cfg.Pipeline.Transition != "" {
		opts.Transition = &stage.Transition{
			Name:     cfg.Pipeline.Transition,
			Duration: time.Duration(cfg.Pipeline.TransitionDurationMS) * time.Millisecond,
		}
	}
	return opts
}
