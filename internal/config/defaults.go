package config

const (
	defaultStateDir             = "~/.local/share/splice"
	defaultLogDir               = "~/.local/share/splice/logs"
	defaultConcurrency          = 4
	defaultFrameFormat          = "raw"
	defaultTransitionDurationMS = 500
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultVideoCodec           = "libx264"
	defaultPreset               = "medium"
	defaultCRF                  = 18
	defaultPixelFormat          = "yuv420p"
	defaultAudioCodec           = "aac"
	defaultAudioBitrate         = "192k"
	defaultStaleAfterHours      = 24
	defaultMinFreeMB            = 2048
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Pipeline: Pipeline{
			Concurrency:          defaultConcurrency,
			FrameFormat:          defaultFrameFormat,
			CleanupFrames:        true,
			TransitionDurationMS: defaultTransitionDurationMS,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			VideoCodec:    defaultVideoCodec,
			Preset:        defaultPreset,
			CRF:           defaultCRF,
			PixelFormat:   defaultPixelFormat,
			AudioCodec:    defaultAudioCodec,
			AudioBitrate:  defaultAudioBitrate,
		},
		Workspace: Workspace{
			StaleAfterHours: defaultStaleAfterHours,
			MinFreeMB:       defaultMinFreeMB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
