package frames

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"splice/internal/deps"
	"splice/internal/logging"
	"splice/internal/services"
	"splice/internal/services/ffmpeg"
	"splice/internal/stage"
)

// DefaultFPS is used when the first clip reports no usable frame rate.
const DefaultFPS = 30.0

// Options configures the engine.
type Options struct {
	FFmpegBinary  string
	FFprobeBinary string
	// Runner executes ffmpeg. Defaults to a CLI runner for FFmpegBinary.
	Runner ffmpeg.Runner
	// Prober inspects clips. Defaults to FFprobe{Binary: FFprobeBinary}.
	Prober Prober
	Logger *slog.Logger
}

// Engine is the ffmpeg-backed frame initializer.
type Engine struct {
	ffmpegBinary  string
	ffprobeBinary string
	runner        ffmpeg.Runner
	prober        Prober
	logger        *slog.Logger
}

// New constructs an Engine.
func New(opts Options) *Engine {
	e := &Engine{
		ffmpegBinary:  strings.TrimSpace(opts.FFmpegBinary),
		ffprobeBinary: strings.TrimSpace(opts.FFprobeBinary),
		runner:        opts.Runner,
		prober:        opts.Prober,
		logger:        opts.Logger,
	}
	if e.ffmpegBinary == "" {
		e.ffmpegBinary = "ffmpeg"
	}
	if e.ffprobeBinary == "" {
		e.ffprobeBinary = "ffprobe"
	}
	if e.runner == nil {
		e.runner = ffmpeg.NewCLI(ffmpeg.WithBinary(e.ffmpegBinary))
	}
	if e.prober == nil {
		e.prober = FFprobe{Binary: e.ffprobeBinary}
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	e.logger = logging.NewComponentLogger(e.logger, "frames")
	return e
}

// HealthCheck verifies ffmpeg and ffprobe are installed.
func (e *Engine) HealthCheck(context.Context) stage.Health {
	const name = "frame initializer"
	for _, status := range deps.Check(deps.Tools(e.ffmpegBinary, e.ffprobeBinary)...) {
		if !status.Available {
			return stage.Unhealthy(name, status.Detail)
		}
	}
	return stage.Healthy(name)
}

// InitFrames probes and extracts every clip, then plans the output frames.
func (e *Engine) InitFrames(ctx context.Context, req stage.InitRequest) (stage.InitResult, error) {
	ext, err := extension(req.FrameFormat)
	if err != nil {
		return stage.InitResult{}, err
	}
	limit := max(req.Concurrency, 1)
	logger := logging.WithContext(ctx, e.logger)

	infos, err := e.probeAll(ctx, req.Videos, limit)
	if err != nil {
		return stage.InitResult{}, err
	}

	first := infos[0]
	fps := first.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	width, height := evenDimension(first.Width), evenDimension(first.Height)
	for _, info := range infos[1:] {
		if info.Width != first.Width || info.Height != first.Height {
			logger.Debug("clip will be scaled to theme size",
				logging.String("clip", info.Path),
				logging.Int("width", info.Width),
				logging.Int("height", info.Height),
			)
		}
	}

	clips, err := e.extractAll(ctx, req.Videos, req.OutputDir, ext, width, height, fps, limit)
	if err != nil {
		return stage.InitResult{}, err
	}

	var boundaries []Boundary
	for _, t := range ResolveTransitions(len(clips), req.Transition, req.Transitions) {
		boundaries = append(boundaries, Boundary{Transition: t.Name, Overlap: OverlapFrames(t, fps)})
	}
	boundaries = ClampOverlaps(clips, boundaries)
	plan := BuildPlan(clips, boundaries)
	if len(plan) == 0 {
		return stage.InitResult{}, services.Wrap(services.ErrValidation, "init-frames", "plan frames", "input clips produced no frames", nil)
	}

	theme := stage.Theme{
		Width:       width,
		Height:      height,
		FPS:         fps,
		FrameFormat: req.FrameFormat,
		NumFrames:   len(plan),
		Duration:    time.Duration(float64(len(plan)) / fps * float64(time.Second)),
		Transitions: ResolvedTransitions(boundaries, fps),
	}
	logger.Info("frame plan ready",
		logging.Int("clips", len(clips)),
		logging.Int("frames", theme.NumFrames),
		logging.Int("width", width),
		logging.Int("height", height),
		logging.Float64("fps", fps),
		logging.Event("frame_plan_ready"),
	)
	return stage.InitResult{Frames: plan, Theme: theme}, nil
}

func (e *Engine) probeAll(ctx context.Context, videos []string, limit int) ([]ClipInfo, error) {
	infos := make([]ClipInfo, len(videos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range videos {
		g.Go(func() error {
			info, err := e.prober.Probe(gctx, path)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

func (e *Engine) extractAll(ctx context.Context, videos []string, dir, ext string, width, height int, fps float64, limit int) ([]Clip, error) {
	clips := make([]Clip, len(videos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range videos {
		g.Go(func() error {
			pattern := ClipPattern(dir, i, ext)
			args := ExtractArgs(path, pattern, ext, width, height, fps)
			if err := e.runner.Run(gctx, args, nil); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				return services.Wrap(services.ErrExternalTool, "init-frames", "extract frames", fmt.Sprintf("ffmpeg could not decode %s", path), err)
			}
			count, err := countFrames(dir, i, ext)
			if err != nil {
				return services.Wrap(services.ErrResource, "init-frames", "count frames", path, err)
			}
			if count == 0 {
				return services.Wrap(services.ErrValidation, "init-frames", "extract frames", fmt.Sprintf("%s produced no frames", path), nil)
			}
			clips[i] = Clip{Pattern: pattern, Frames: count}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clips, nil
}

// ExtractArgs builds the ffmpeg arguments that decode one clip into numbered
// frames of the theme size and rate.
func ExtractArgs(input, pattern, ext string, width, height int, fps float64) []string {
	filter := fmt.Sprintf("fps=%s,scale=%d:%d:flags=bicubic,setsar=1", formatRate(fps), width, height)
	args := []string{
		"-hide_banner", "-nostats", "-loglevel", "error", "-y",
		"-i", input,
		"-an", "-sn",
		"-vf", filter,
		"-start_number", "0",
		"-f", "image2",
	}
	if ext == "png" {
		args = append(args, "-c:v", "png", "-pix_fmt", "rgba")
	} else {
		args = append(args, "-c:v", "rawvideo", "-pix_fmt", "rgba")
	}
	return append(args, pattern)
}

func countFrames(dir string, i int, ext string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, fmt.Sprintf("clip-%d-*.%s", i, ext)))
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

func extension(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "raw":
		return "raw", nil
	case "png":
		return "png", nil
	default:
		return "", services.Wrap(services.ErrValidation, "init-frames", "frame format", fmt.Sprintf("unsupported frame format %q", format), nil)
	}
}

func formatRate(fps float64) string {
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

// evenDimension rounds down to an even size so yuv420p encoders accept it.
func evenDimension(v int) int {
	v &^= 1
	return max(v, 2)
}
