package config

// Paths contains directory configuration.
type Paths struct {
	// WorkspaceDir is the base for per-run workspaces. Empty means the
	// platform temp directory.
	WorkspaceDir string `toml:"workspace_dir"`
	StateDir     string `toml:"state_dir"`
	LogDir       string `toml:"log_dir"`
}

// Pipeline holds defaults for the concat pipeline options.
type Pipeline struct {
	Concurrency          int    `toml:"concurrency"`
	FrameFormat          string `toml:"frame_format"`
	CleanupFrames        bool   `toml:"cleanup_frames"`
	Transition           string `toml:"transition"`
	TransitionDurationMS int    `toml:"transition_duration_ms"`
}

// FFmpeg contains the external tool settings used by the default engines.
type FFmpeg struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	VideoCodec    string `toml:"video_codec"`
	Preset        string `toml:"preset"`
	CRF           int    `toml:"crf"`
	PixelFormat   string `toml:"pixel_format"`
	AudioCodec    string `toml:"audio_codec"`
	AudioBitrate  string `toml:"audio_bitrate"`
}

type Workspace struct {
	StaleAfterHours int `toml:"stale_after_hours"`
	// MinFreeMB is the free space `splice doctor` expects under the
	// workspace base. Zero disables the check.
	MinFreeMB int `toml:"min_free_mb"`
}

// History controls the optional SQLite run journal.
type History struct {
	Enabled bool `toml:"enabled"`
}

type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the decoded splice.toml. Pipeline seeds concat options, FFmpeg
// configures the default engines, and the rest serves the CLI.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Pipeline  Pipeline  `toml:"pipeline"`
	FFmpeg    FFmpeg    `toml:"ffmpeg"`
	Workspace Workspace `toml:"workspace"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
}
