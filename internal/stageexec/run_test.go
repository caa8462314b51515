package stageexec

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"splice/internal/logging"
	"splice/internal/services"
)

func TestRunReportsTimingAndLogsCompletion(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	var lines []string
	called := false
	result, err := Run(context.Background(), Options{
		Logger:    logger,
		StageName: "render-frames",
		Sink:      func(msg string) { lines = append(lines, msg) },
		Execute: func(ctx context.Context) error {
			called = true
			if stageName, _ := services.StageFromContext(ctx); stageName != "render-frames" {
				t.Errorf("expected stage in context, got %q", stageName)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Fatal("expected Execute to be called")
	}
	if result.Stage != "render-frames" {
		t.Fatalf("unexpected result stage %q", result.Stage)
	}
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "render-frames: ") {
		t.Fatalf("expected one timing line, got %v", lines)
	}
	out := buf.String()
	for _, want := range []string{`"event_type":"stage_start"`, `"event_type":"stage_complete"`, `"stage":"render-frames"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestRunReturnsErrorUnchanged(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	want := services.Wrap(services.ErrExternalTool, "transcode", "ffmpeg", "encode failed", errors.New("exit 1"))
	_, got := Run(context.Background(), Options{
		Logger:    logger,
		StageName: "transcode-video",
		Execute:   func(context.Context) error { return want },
	})
	if got != want {
		t.Fatalf("expected identical error value, got %v", got)
	}
	if !strings.Contains(buf.String(), `"event_type":"stage_failure"`) {
		t.Fatalf("expected stage_failure event:\n%s", buf.String())
	}
}

func TestRunRequiresExecute(t *testing.T) {
	if _, err := Run(context.Background(), Options{StageName: "init-frames"}); err == nil {
		t.Fatal("expected error without Execute")
	}
}
