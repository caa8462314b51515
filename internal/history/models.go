package history

import (
	"errors"
	"time"

	"splice/internal/concat"
)

// Status is the terminal outcome of a journaled run.
type Status string

const (
	StatusDone    Status = "done"
	StatusErrored Status = "errored"
)

// Run is one journal entry.
type Run struct {
	ID            string               `json:"id"`
	Status        Status               `json:"status"`
	Output        string               `json:"output"`
	Clips         []string             `json:"clips"`
	Audio         string               `json:"audio,omitempty"`
	Transition    string               `json:"transition,omitempty"`
	FrameFormat   string               `json:"frame_format,omitempty"`
	Concurrency   int                  `json:"concurrency,omitempty"`
	Width         int                  `json:"width,omitempty"`
	Height        int                  `json:"height,omitempty"`
	FPS           float64              `json:"fps,omitempty"`
	Frames        int                  `json:"frames,omitempty"`
	Workspace     string               `json:"workspace,omitempty"`
	WorkspaceKept bool                 `json:"workspace_kept,omitempty"`
	Stages        []concat.StageTiming `json:"stages,omitempty"`
	ErrorMessage  string               `json:"error,omitempty"`
	// ErrorStage is the stage whose engine failed, when known.
	ErrorStage string `json:"error_stage,omitempty"`
	// BatchJob names the manifest job that produced the run, if any.
	BatchJob   string        `json:"batch_job,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
}

// Failed reports whether the run ended in an error.
func (r Run) Failed() bool { return r.Status == StatusErrored }

// FromReport builds a journal entry from a finished run. err is the value
// Pipeline.Run returned.
func FromReport(opts concat.Options, report concat.Report, err error) Run {
	run := Run{
		ID:            report.RunID,
		Status:        StatusDone,
		Output:        opts.Output,
		Clips:         append([]string(nil), opts.Videos...),
		Audio:         opts.Audio,
		FrameFormat:   opts.FrameFormat,
		Concurrency:   opts.Concurrency,
		Width:         report.Theme.Width,
		Height:        report.Theme.Height,
		FPS:           report.Theme.FPS,
		Frames:        report.Theme.NumFrames,
		Workspace:     report.Workspace,
		WorkspaceKept: report.Kept,
		Stages:        append([]concat.StageTiming(nil), report.Stages...),
		StartedAt:     report.Started,
		Duration:      report.Total,
	}
	if run.ID == "" {
		run.ID = opts.RunID
	}
	if opts.Transition != nil {
		run.Transition = opts.Transition.Name
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.FinishedAt = run.StartedAt.Add(run.Duration)
	if err != nil || report.State == concat.StateErrored {
		run.Status = StatusErrored
	}
	if err != nil {
		run.ErrorMessage = err.Error()
		var engineErr *concat.EngineError
		if errors.As(err, &engineErr) {
			run.ErrorStage = engineErr.Stage
		}
	}
	return run
}
