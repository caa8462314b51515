package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"splice/internal/concat"
	"splice/internal/logging"
	"splice/internal/progress"
	"splice/internal/services"
)

// DefaultParallel applies when neither the caller nor the manifest sets a
// job limit.
const DefaultParallel = 1

// Pipeline runs one concat job. *concat.Pipeline satisfies it.
type Pipeline interface {
	Run(ctx context.Context, opts concat.Options) (concat.Report, error)
}

// Result is the outcome of one job.
type Result struct {
	Job      string
	Options  concat.Options
	Report   concat.Report
	Err      error
	Duration time.Duration
}

// Options configures a Runner.
type Options struct {
	// Parallel overrides the manifest's job limit when positive.
	Parallel int
	// Base seeds every job's run options.
	Base   concat.Options
	Logger *slog.Logger
	// Sink returns the progress sink for a job. Nil discards progress.
	Sink func(job string) progress.Sink
	// OnDone is called once per job as it finishes. Calls are serialized.
	OnDone func(Result)
}

// Runner executes manifests.
type Runner struct {
	pipeline Pipeline
	opts     Options
	logger   *slog.Logger
}

// NewRunner constructs a Runner.
func NewRunner(pipeline Pipeline, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		pipeline: pipeline,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "batch"),
	}
}

// Run executes every job in m and returns the results in manifest order.
// A job failure is recorded in its Result and never cancels other jobs.
func (r *Runner) Run(ctx context.Context, m *Manifest) []Result {
	parallel := r.opts.Parallel
	if parallel <= 0 {
		parallel = m.Parallel
	}
	if parallel <= 0 {
		parallel = DefaultParallel
	}
	r.logger.Info("batch started",
		logging.Event("batch_start"),
		logging.Int("jobs", len(m.Jobs)),
		logging.Int("parallel", parallel),
	)

	results := make([]Result, len(m.Jobs))
	var doneMu sync.Mutex
	var g errgroup.Group
	g.SetLimit(parallel)
	for i, job := range m.Jobs {
		g.Go(func() error {
			results[i] = r.runJob(ctx, m, job)
			if r.opts.OnDone != nil {
				doneMu.Lock()
				r.opts.OnDone(results[i])
				doneMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := Failed(results)
	r.logger.Info("batch finished",
		logging.Event("batch_complete"),
		logging.Int("jobs", len(results)),
		logging.Int("failed", failed),
	)
	return results
}

func (r *Runner) runJob(ctx context.Context, m *Manifest, job Job) Result {
	result := Result{Job: job.Name}
	opts, err := m.Options(job, r.opts.Base)
	if err != nil {
		result.Err = err
		return result
	}
	if err := ctx.Err(); err != nil {
		result.Options = opts
		result.Err = fmt.Errorf("job %q not started: %w", job.Name, err)
		return result
	}
	opts.RunID = uuid.NewString()
	opts.Log = progress.Nop
	if r.opts.Sink != nil {
		opts.Log = r.opts.Sink(job.Name).OrNop()
	}
	opts.Logger = r.logger
	result.Options = opts

	jobCtx := services.WithBatchJob(ctx, job.Name)
	start := time.Now()
	result.Report, result.Err = r.pipeline.Run(jobCtx, opts)
	result.Duration = time.Since(start)
	if result.Err != nil {
		logging.WarnWithContext(logging.WithContext(jobCtx, r.logger), "batch job failed", "batch_job_failed",
			logging.String(logging.FieldRunID, opts.RunID),
			logging.Error(result.Err),
		)
	}
	return result
}

// Failed counts results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, res := range results {
		if res.Err != nil {
			n++
		}
	}
	return n
}
