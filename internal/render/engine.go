package render

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"splice/internal/fileutil"
	"splice/internal/logging"
	"splice/internal/services"
	"splice/internal/stage"
)

// Options configures the engine.
type Options struct {
	Logger *slog.Logger
}

// Engine renders frame plans on the CPU.
type Engine struct {
	logger *slog.Logger
}

// New constructs an Engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{logger: logging.NewComponentLogger(logger, "render")}
}

// HealthCheck always succeeds; rendering needs no external tools.
func (e *Engine) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("frame renderer")
}

// OutputPattern returns the pattern rendered frames are written to.
func OutputPattern(dir, format string) string {
	return filepath.Join(dir, "frame-%012d."+extension(format))
}

// RenderFrames writes every planned frame and returns the output pattern.
func (e *Engine) RenderFrames(ctx context.Context, req stage.RenderRequest) (string, error) {
	format := extension(req.FrameFormat)
	pattern := OutputPattern(req.OutputDir, format)
	total := len(req.Frames)
	if total == 0 {
		return "", services.Wrap(services.ErrValidation, "render-frames", "render", "frame plan is empty", nil)
	}
	logger := logging.WithContext(ctx, e.logger)
	blends := e.resolveBlends(logger, req.Frames)

	var (
		mu   sync.Mutex
		done int
	)
	advance := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		stage.Report(req.OnProgress, float64(done)/float64(total))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(req.Concurrency, 1))
	for _, frame := range req.Frames {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := fmt.Sprintf(pattern, frame.Index)
			if err := renderFrame(out, format, frame, req.Theme, blends); err != nil {
				return services.Wrap(services.ErrResource, "render-frames", "render frame", fmt.Sprintf("frame %d", frame.Index), err)
			}
			advance()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	logger.Debug("frames rendered",
		logging.Int("frames", total),
		logging.String("pattern", pattern),
		logging.Event("frames_rendered"),
	)
	return pattern, nil
}

// resolveBlends maps every transition name in the plan to a blend, warning
// once per unknown name.
func (e *Engine) resolveBlends(logger *slog.Logger, frames stage.FramePlan) map[string]Blend {
	blends := map[string]Blend{}
	for _, frame := range frames {
		if frame.Next == "" {
			continue
		}
		if _, seen := blends[frame.Transition]; seen {
			continue
		}
		blend, ok := Lookup(frame.Transition)
		if !ok {
			logging.WarnWithContext(logger, "unknown transition, using fade", "transition_fallback",
				logging.String("transition", frame.Transition),
				logging.String(logging.FieldErrorHint, fmt.Sprintf("supported transitions: %v", Names())),
				logging.Impact("boundary rendered with a crossfade"),
			)
			blend, _ = Lookup(DefaultTransition)
		}
		blends[frame.Transition] = blend
	}
	return blends
}

func renderFrame(out, format string, frame stage.Frame, theme stage.Theme, blends map[string]Blend) error {
	if frame.Next == "" {
		return fileutil.LinkOrCopy(frame.Current, out)
	}
	from, err := ReadFrame(frame.Current, format, theme.Width, theme.Height)
	if err != nil {
		return err
	}
	to, err := ReadFrame(frame.Next, format, theme.Width, theme.Height)
	if err != nil {
		return err
	}
	dst := make([]byte, len(from))
	blends[frame.Transition](dst, from, to, theme.Width, theme.Height, frame.Progress)
	return WriteFrame(out, format, dst, theme.Width, theme.Height)
}

func extension(format string) string {
	if format == "png" {
		return "png"
	}
	return "raw"
}
