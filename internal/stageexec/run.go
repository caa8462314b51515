package stageexec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"splice/internal/logging"
	"splice/internal/progress"
	"splice/internal/services"
)

// Options controls how one pipeline stage is run and observed.
type Options struct {
	Logger    *slog.Logger
	StageName string
	// Sink receives the "<stage>: <elapsed>" timing line.
	Sink    progress.Sink
	Execute func(context.Context) error
}

// Result describes a finished stage.
type Result struct {
	Stage    string
	Duration time.Duration
}

// Run executes a stage with timing and stage_start/stage_complete/stage_failure
// logging. The error from Execute is returned as-is.
func Run(ctx context.Context, opts Options) (Result, error) {
	result := Result{Stage: opts.StageName}
	if opts.Execute == nil {
		return result, fmt.Errorf("stage handler unavailable: %s", opts.StageName)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	stageCtx := services.WithStage(ctx, opts.StageName)
	stageLogger := logging.WithContext(stageCtx, logger)
	stageLogger.Info(
		"stage started",
		logging.Event("stage_start"),
	)

	timer := progress.StartTimer(opts.StageName)
	err := opts.Execute(stageCtx)
	result.Duration = timer.Stop(opts.Sink)

	if err != nil {
		stageLogger.Error(
			"stage failed",
			logging.Event("stage_failure"),
			logging.Duration("stage_duration", result.Duration),
			logging.String("error_message", strings.TrimSpace(err.Error())),
			logging.String(logging.FieldErrorHint, errorHint(err)),
			logging.Error(err),
		)
		return result, err
	}

	stageLogger.Info(
		"stage completed",
		logging.Event("stage_complete"),
		logging.Duration("stage_duration", result.Duration),
	)
	return result, nil
}

func errorHint(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "run was cancelled"
	}
	if hint := services.Hint(err); hint != "" {
		return hint
	}
	return "rerun with --log-level debug for details"
}
