package history

import (
	"errors"
	"testing"
	"time"

	"splice/internal/concat"
	"splice/internal/stage"
)

func TestFromReportSuccess(t *testing.T) {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	opts := concat.Options{
		RunID:       "ignored",
		Videos:      []string{"a.mp4", "b.mp4"},
		Output:      "out.mp4",
		Transition:  &stage.Transition{Name: "fade", Duration: time.Second},
		FrameFormat: "png",
		Concurrency: 2,
	}
	report := concat.Report{
		RunID:   "run-1",
		Started: started,
		Total:   4 * time.Second,
		Theme:   stage.Theme{Width: 640, Height: 360, FPS: 25, NumFrames: 100},
		State:   concat.StateDone,
	}

	run := FromReport(opts, report, nil)
	if run.ID != "run-1" || run.Status != StatusDone || run.Failed() {
		t.Fatalf("unexpected run %+v", run)
	}
	if run.Transition != "fade" || run.Frames != 100 || run.Width != 640 {
		t.Fatalf("unexpected run details %+v", run)
	}
	if !run.FinishedAt.Equal(started.Add(4 * time.Second)) {
		t.Fatalf("unexpected finish time %v", run.FinishedAt)
	}
}

func TestFromReportFailureKeepsStage(t *testing.T) {
	opts := concat.Options{RunID: "run-2", Videos: []string{"a.mp4"}, Output: "out.mp4"}
	err := &concat.EngineError{Stage: stage.NameTranscodeVideo, Err: errors.New("encoder exited 1")}
	run := FromReport(opts, concat.Report{State: concat.StateErrored}, err)
	if run.ID != "run-2" {
		t.Fatalf("expected run id fallback, got %q", run.ID)
	}
	if !run.Failed() || run.ErrorStage != stage.NameTranscodeVideo || run.ErrorMessage == "" {
		t.Fatalf("unexpected failure run %+v", run)
	}
	if run.StartedAt.IsZero() {
		t.Fatal("expected start time to be filled in")
	}
}
