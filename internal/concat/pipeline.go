package concat

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"splice/internal/logging"
	"splice/internal/progress"
	"splice/internal/services"
	"splice/internal/stage"
	"splice/internal/stageexec"
	"splice/internal/workspace"
)

// Progress stage names used in "<stage> <pct>%" lines.
const (
	ProgressRender    = "render"
	ProgressTranscode = "transcode"
	// TimerRun names the whole-run timer.
	TimerRun = "splice"
)

// Engines bundles the three stage implementations.
type Engines struct {
	Initializer stage.FrameInitializer
	Renderer    stage.FrameRenderer
	Transcoder  stage.Transcoder
}

// WorkspaceManager creates and removes run workspaces. Keep unlocks a
// workspace that stays on disk.
type WorkspaceManager interface {
	Acquire(baseDir string) (*workspace.Workspace, error)
	Release(ws *workspace.Workspace, logger *slog.Logger) error
	Keep(ws *workspace.Workspace) error
}

type defaultWorkspaces struct{}

func (defaultWorkspaces) Acquire(baseDir string) (*workspace.Workspace, error) {
	return workspace.Acquire(baseDir)
}

func (defaultWorkspaces) Release(ws *workspace.Workspace, logger *slog.Logger) error {
	return workspace.Release(ws, logger)
}

func (defaultWorkspaces) Keep(ws *workspace.Workspace) error {
	return workspace.Keep(ws)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used when Options.Logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithWorkspaceManager replaces workspace creation and removal.
func WithWorkspaceManager(m WorkspaceManager) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.workspaces = m
		}
	}
}

// Pipeline runs concat jobs against a fixed set of engines. It holds no
// per-run state and is safe for concurrent use.
type Pipeline struct {
	engines    Engines
	logger     *slog.Logger
	workspaces WorkspaceManager
}

// New constructs a Pipeline.
func New(engines Engines, opts ...Option) *Pipeline {
	p := &Pipeline{
		engines:    engines,
		logger:     logging.NewNop(),
		workspaces: defaultWorkspaces{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StageTiming records how long one stage ran.
type StageTiming struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"duration"`
}

// Report summarizes a run. It is filled in as far as the run got, also on
// failure.
type Report struct {
	RunID     string        `json:"run_id"`
	Workspace string        `json:"workspace,omitempty"`
	Kept      bool          `json:"workspace_kept,omitempty"`
	Started   time.Time     `json:"started"`
	Total     time.Duration `json:"total"`
	Stages    []StageTiming `json:"stages,omitempty"`
	Theme     stage.Theme   `json:"theme"`
	State     State         `json:"state"`
}

// Health reports readiness of each engine.
func (p *Pipeline) Health(ctx context.Context) []stage.Health {
	var out []stage.Health
	if p.engines.Initializer != nil {
		out = append(out, p.engines.Initializer.HealthCheck(ctx))
	}
	if p.engines.Renderer != nil {
		out = append(out, p.engines.Renderer.HealthCheck(ctx))
	}
	if p.engines.Transcoder != nil {
		out = append(out, p.engines.Transcoder.HealthCheck(ctx))
	}
	return out
}

// Run executes one concat job. On success it returns nil, regardless of
// whether the workspace could be removed. On a stage failure it returns
// that stage's *EngineError unchanged, after removing the workspace unless
// KeepFrames is set.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = p.logger
	}
	resolved, err := opts.resolve()
	if err != nil {
		logger.Warn("concat options rejected",
			logging.Event("run_rejected"),
			logging.Error(err),
		)
		return Report{State: StateErrored}, err
	}
	if err := p.checkEngines(); err != nil {
		return Report{State: StateErrored}, err
	}

	runID := resolved.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = services.WithRunID(ctx, runID)
	r := &run{
		pipeline: p,
		opts:     resolved,
		sink:     resolved.Log,
		logger:   logging.WithContext(ctx, logger),
		state:    StateIdle,
		report:   Report{RunID: runID, Started: time.Now(), State: StateIdle},
	}
	return r.execute(ctx)
}

func (p *Pipeline) checkEngines() error {
	switch {
	case p.engines.Initializer == nil:
		return &ConfigError{Field: "engines", Reason: "frame initializer not configured"}
	case p.engines.Renderer == nil:
		return &ConfigError{Field: "engines", Reason: "frame renderer not configured"}
	case p.engines.Transcoder == nil:
		return &ConfigError{Field: "engines", Reason: "transcoder not configured"}
	}
	return nil
}

type run struct {
	pipeline *Pipeline
	opts     Options
	sink     progress.Sink
	logger   *slog.Logger
	state    State
	report   Report
	ws       *workspace.Workspace
	total    *progress.Timer
}

func (r *run) enter(next State) {
	r.logger.Debug("pipeline state change",
		logging.String("from", r.state.String()),
		logging.String("to", next.String()),
	)
	r.state = next
	r.report.State = next
}

func (r *run) execute(ctx context.Context) (Report, error) {
	r.logger.Info("concat run started",
		logging.Event("run_start"),
		logging.Int("clips", len(r.opts.Videos)),
		logging.String("output", r.opts.Output),
		logging.Int("concurrency", r.opts.Concurrency),
		logging.String("frame_format", r.opts.FrameFormat),
	)

	r.enter(StateAcquiring)
	r.total = progress.StartTimer(TimerRun)
	ws, err := r.pipeline.workspaces.Acquire(r.opts.WorkingDir)
	if err != nil {
		return r.fail(err)
	}
	r.ws = ws
	r.report.Workspace = ws.Path
	r.logger.Debug("workspace acquired",
		logging.String("workspace", ws.Path),
		logging.Event("workspace_acquired"),
	)

	var initResult stage.InitResult
	err = r.stage(ctx, StateStage1, stage.NameInitFrames, func(ctx context.Context) error {
		var err error
		initResult, err = r.initFrames(ctx)
		return err
	})
	if err != nil {
		return r.fail(err)
	}
	r.report.Theme = initResult.Theme

	var pattern string
	err = r.stage(ctx, StateStage2, stage.NameRenderFrames, func(ctx context.Context) error {
		var err error
		pattern, err = r.renderFrames(ctx, initResult)
		return err
	})
	if err != nil {
		return r.fail(err)
	}

	err = r.stage(ctx, StateStage3, stage.NameTranscodeVideo, func(ctx context.Context) error {
		return r.transcode(ctx, pattern, initResult.Theme)
	})
	if err != nil {
		return r.fail(err)
	}

	r.release()
	r.enter(StateDone)
	r.report.Total = r.total.Stop(r.sink)
	r.logger.Info("concat run completed",
		logging.Event("run_complete"),
		logging.String("output", r.opts.Output),
		logging.Int("frames", initResult.Theme.NumFrames),
		logging.Duration("duration", r.report.Total),
	)
	return r.report, nil
}

func (r *run) stage(ctx context.Context, state State, name string, execute func(context.Context) error) error {
	r.enter(state)
	result, err := stageexec.Run(ctx, stageexec.Options{
		Logger:    r.logger,
		StageName: name,
		Sink:      r.sink,
		Execute:   execute,
	})
	r.report.Stages = append(r.report.Stages, StageTiming{Stage: name, Duration: result.Duration})
	return err
}

// fail releases the workspace when cleanup is enabled and hands back err
// untouched.
func (r *run) fail(err error) (Report, error) {
	failedIn := r.state
	r.enter(StateErrored)
	r.release()
	r.report.State = StateErrored
	r.report.Total = r.total.Stop(r.sink)
	logging.ErrorWithContext(r.logger, "concat run failed", "run_failure",
		logging.String("failed_state", failedIn.String()),
		logging.Bool("workspace_kept", r.report.Kept),
		logging.Error(err),
	)
	return r.report, err
}

func (r *run) release() {
	if r.ws == nil {
		return
	}
	if r.opts.KeepFrames {
		r.report.Kept = true
		if err := r.pipeline.workspaces.Keep(r.ws); err != nil {
			logging.WarnWithContext(r.logger, "failed to unlock kept workspace", "workspace_unlock_failed",
				logging.String("workspace", r.ws.Path),
				logging.Error(err),
			)
		}
		r.logger.Info("workspace kept",
			logging.String("workspace", r.ws.Path),
			logging.Event("workspace_kept"),
		)
		return
	}
	if r.state != StateErrored {
		r.enter(StateReleasing)
	}
	if err := r.pipeline.workspaces.Release(r.ws, r.logger); err != nil {
		r.sink.Emit("cleanup warning: " + err.Error())
	}
}
