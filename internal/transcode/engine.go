package transcode

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"splice/internal/deps"
	"splice/internal/logging"
	"splice/internal/services"
	"splice/internal/services/ffmpeg"
	"splice/internal/stage"
)

const reserveAttempts = 10

// Settings are the encoder parameters.
type Settings struct {
	VideoCodec   string
	Preset       string
	CRF          int
	PixelFormat  string
	AudioCodec   string
	AudioBitrate string
}

// DefaultSettings mirror the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		VideoCodec:  "libx264",
		Preset:      "medium",
		CRF:         18,
		PixelFormat: "yuv420p",
		AudioCodec:  "aac",
	}
}

// Options configures the engine.
type Options struct {
	FFmpegBinary string
	Runner       ffmpeg.Runner
	Settings     Settings
	Logger       *slog.Logger
}

// Engine encodes frame sequences with ffmpeg.
type Engine struct {
	binary   string
	runner   ffmpeg.Runner
	settings Settings
	logger   *slog.Logger
}

// New constructs an Engine. Empty settings fields, and a zero CRF, take
// DefaultSettings values.
func New(opts Options) *Engine {
	e := &Engine{
		binary:   strings.TrimSpace(opts.FFmpegBinary),
		runner:   opts.Runner,
		settings: withDefaults(opts.Settings),
		logger:   opts.Logger,
	}
	if e.binary == "" {
		e.binary = "ffmpeg"
	}
	if e.runner == nil {
		e.runner = ffmpeg.NewCLI(ffmpeg.WithBinary(e.binary))
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	e.logger = logging.NewComponentLogger(e.logger, "transcode")
	return e
}

func withDefaults(s Settings) Settings {
	d := DefaultSettings()
	if strings.TrimSpace(s.VideoCodec) != "" {
		d.VideoCodec = strings.TrimSpace(s.VideoCodec)
	}
	if strings.TrimSpace(s.Preset) != "" {
		d.Preset = strings.TrimSpace(s.Preset)
	}
	if s.CRF > 0 {
		d.CRF = s.CRF
	}
	if strings.TrimSpace(s.PixelFormat) != "" {
		d.PixelFormat = strings.TrimSpace(s.PixelFormat)
	}
	if strings.TrimSpace(s.AudioCodec) != "" {
		d.AudioCodec = strings.TrimSpace(s.AudioCodec)
	}
	if strings.TrimSpace(s.AudioBitrate) != "" {
		d.AudioBitrate = strings.TrimSpace(s.AudioBitrate)
	}
	return d
}

// HealthCheck verifies ffmpeg is installed.
func (e *Engine) HealthCheck(context.Context) stage.Health {
	const name = "transcoder"
	status := deps.Check(deps.FFmpeg(e.binary))[0]
	if !status.Available {
		return stage.Unhealthy(name, status.Detail)
	}
	return stage.Healthy(name)
}

// Transcode encodes req.FramePattern into req.Output.
func (e *Engine) Transcode(ctx context.Context, req stage.TranscodeRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	logger := logging.WithContext(ctx, e.logger)

	tmp, err := reserveTemp(req.Output)
	if err != nil {
		return services.Wrap(services.ErrResource, "transcode-video", "prepare output", req.Output, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp)
		}
	}()

	args := BuildArgs(req, e.settings, tmp)
	logger.Debug("starting encode",
		logging.String("binary", e.binary),
		logging.String("args", strings.Join(args, " ")),
		logging.Event("encode_start"),
	)

	tracker := ffmpeg.NewProgressTracker(req.Theme.NumFrames)
	err = e.runner.Run(ctx, args, func(line string) {
		if fraction, ok := tracker.Feed(line); ok {
			stage.Report(req.OnProgress, fraction)
		}
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return services.Wrap(services.ErrExternalTool, "transcode-video", "encode", "ffmpeg encode failed", err)
	}

	if err := os.Rename(tmp, req.Output); err != nil {
		return services.Wrap(services.ErrResource, "transcode-video", "finalize output", req.Output, err)
	}
	committed = true
	stage.Report(req.OnProgress, 1)

	if info, statErr := os.Stat(req.Output); statErr == nil {
		logger.Info("output written",
			logging.String("output", req.Output),
			logging.Int64("bytes", info.Size()),
			logging.Event("encode_complete"),
		)
	}
	return nil
}

func validate(req stage.TranscodeRequest) error {
	if strings.TrimSpace(req.FramePattern) == "" {
		return services.Wrap(services.ErrValidation, "transcode-video", "validate", "frame pattern is empty", nil)
	}
	if strings.TrimSpace(req.Output) == "" {
		return services.Wrap(services.ErrValidation, "transcode-video", "validate", "output path is empty", nil)
	}
	if req.Theme.FPS <= 0 {
		return services.Wrap(services.ErrValidation, "transcode-video", "validate", "theme frame rate must be positive", nil)
	}
	if req.FrameFormat != "png" && (req.Theme.Width <= 0 || req.Theme.Height <= 0) {
		return services.Wrap(services.ErrValidation, "transcode-video", "validate", "raw frames need theme dimensions", nil)
	}
	if dir := filepath.Dir(req.Output); dir != "" {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return services.Wrap(services.ErrValidation, "transcode-video", "validate", fmt.Sprintf("output directory %s does not exist", dir), err)
		}
	}
	if req.Audio != "" {
		if _, err := os.Stat(req.Audio); err != nil {
			return services.Wrap(services.ErrValidation, "transcode-video", "validate", fmt.Sprintf("audio track %s is not readable", req.Audio), err)
		}
	}
	return nil
}

// reserveTemp creates a hidden file in output's directory that keeps
// output's extension so ffmpeg picks the same muxer. The rename that
// publishes the encode only works within one filesystem. The file is created
// 0666 minus the umask, the mode ffmpeg itself would give a new output.
func reserveTemp(output string) (string, error) {
	dir := filepath.Dir(output)
	base := filepath.Base(output)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for range reserveAttempts {
		name := filepath.Join(dir, "."+stem+".splice-"+uuid.NewString()[:8]+ext)
		f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(name)
			return "", err
		}
		return name, nil
	}
	return "", fmt.Errorf("no free temporary name next to %s", output)
}

// BuildArgs assembles the ffmpeg command line writing to target.
func BuildArgs(req stage.TranscodeRequest, s Settings, target string) []string {
	args := []string{
		"-hide_banner", "-nostats", "-loglevel", "error",
		"-progress", "pipe:1", "-y",
		"-framerate", strconv.FormatFloat(req.Theme.FPS, 'f', -1, 64),
		"-start_number", "0",
		"-f", "image2",
	}
	if req.FrameFormat != "png" {
		args = append(args,
			"-c:v", "rawvideo",
			"-pixel_format", "rgba",
			"-video_size", fmt.Sprintf("%dx%d", req.Theme.Width, req.Theme.Height),
		)
	}
	args = append(args, "-i", req.FramePattern)
	if req.Audio != "" {
		args = append(args, "-i", req.Audio, "-map", "0:v:0", "-map", "1:a:0", "-c:a", s.AudioCodec)
		if s.AudioBitrate != "" {
			args = append(args, "-b:a", s.AudioBitrate)
		}
		args = append(args, "-shortest")
	}
	args = append(args, "-c:v", s.VideoCodec)
	if s.Preset != "" {
		args = append(args, "-preset", s.Preset)
	}
	args = append(args, "-crf", strconv.Itoa(s.CRF), "-pix_fmt", s.PixelFormat)
	switch strings.ToLower(filepath.Ext(target)) {
	case ".mp4", ".mov", ".m4v":
		args = append(args, "-movflags", "+faststart")
	}
	return append(args, target)
}
