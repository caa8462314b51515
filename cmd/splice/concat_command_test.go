package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"splice/internal/concat"
	"splice/internal/stage"
	"splice/internal/testsupport"
)

func TestBuildConcatOptionsLayersFlagsOverConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Pipeline.Transition = "fade"
	cfg.Pipeline.TransitionDurationMS = 400

	cmd, flags := newConcatCommandWithFlags(newCommandContext(&globalFlags{}))
	if err := cmd.ParseFlags([]string{
		"-o", "out.mp4",
		"--transitions", "wipeleft:250,cut",
		"--concurrency", "2",
		"--frame-format", "png",
		"--keep-frames",
	}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	opts, err := buildConcatOptions(cmd, cfg, flags, []string{"a.mp4", "b.mp4", "c.mp4"})
	if err != nil {
		t.Fatalf("buildConcatOptions: %v", err)
	}
	if opts.RunID == "" {
		t.Fatal("expected a generated run id")
	}
	if diff := cmp.Diff(&stage.Transition{Name: "fade", Duration: 400 * time.Millisecond}, opts.Transition); diff != "" {
		t.Fatalf("global transition mismatch (-want +got):\n%s", diff)
	}
	wantPer := []stage.Transition{
		{Name: "wipeleft", Duration: 250 * time.Millisecond},
		{Name: "cut", Duration: 400 * time.Millisecond},
	}
	if diff := cmp.Diff(wantPer, opts.Transitions); diff != "" {
		t.Fatalf("per-boundary transitions mismatch (-want +got):\n%s", diff)
	}
	if opts.Concurrency != 2 || opts.FrameFormat != "png" || !opts.KeepFrames {
		t.Fatalf("flags not applied: %+v", opts)
	}
	if opts.WorkingDir != cfg.Paths.WorkspaceDir {
		t.Fatalf("expected config workspace dir, got %q", opts.WorkingDir)
	}
}

func TestBuildConcatOptionsRejectsExtraTransitions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cmd, flags := newConcatCommandWithFlags(newCommandContext(&globalFlags{}))
	if err := cmd.ParseFlags([]string{"-o", "out.mp4", "--transitions", "fade,fade"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	_, err := buildConcatOptions(cmd, cfg, flags, []string{"a.mp4", "b.mp4"})
	if exitCode(err) != 2 {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestConcatRunsAndRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	engines := &fakeEngines{}
	useFakeEngines(t, engines)

	output := filepath.Join(env.baseDir, "joined.mp4")
	out, stderr, err := runCLI(t, []string{
		"concat", "-o", output, "--transition", "fade:500", "a.mp4", "b.mp4",
	}, env.configPath)
	if err != nil {
		t.Fatalf("concat: %v\nstderr: %s", err, stderr)
	}
	requireContains(t, out, "Wrote "+output)
	requireContains(t, out, "Transition: fade 500ms")
	requireContains(t, stderr, "render 50%")
	requireContains(t, stderr, "transcode-video:")
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if len(engines.transcoded) != 1 || engines.transcoded[0].Output != output {
		t.Fatalf("unexpected transcode requests %+v", engines.transcoded)
	}

	entries, err := os.ReadDir(env.cfg.Paths.WorkspaceDir)
	if err != nil {
		t.Fatalf("read workspace dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected workspace removed, found %d entries", len(entries))
	}

	out, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, output)
	requireContains(t, out, "done")

	listJSON, _, err := runCLI(t, []string{"runs", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list --json: %v", err)
	}
	var runs []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(listJSON), &runs); err != nil || len(runs) != 1 {
		t.Fatalf("unexpected runs json %q: %v", listJSON, err)
	}

	out, _, err = runCLI(t, []string{"runs", "show", runs[0].ID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("runs show: %v", err)
	}
	requireContains(t, out, runs[0].ID)
	requireContains(t, out, "Render Frames")
	requireContains(t, out, "1. a.mp4")
}

func TestConcatJSONReportsEngineFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	useFakeEngines(t, &fakeEngines{failTranscode: true})

	output := filepath.Join(env.baseDir, "joined.mp4")
	out, _, err := runCLI(t, []string{"concat", "--json", "-o", output, "a.mp4"}, env.configPath)
	if err == nil {
		t.Fatal("expected transcode failure")
	}
	if code := exitCode(err); code != 4 {
		t.Fatalf("expected exit code 4, got %d (%v)", code, err)
	}

	var payload struct {
		RunID  string       `json:"run_id"`
		State  concat.State `json:"state"`
		Error  string       `json:"error"`
		Output string       `json:"output"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json %q: %v", out, err)
	}
	if payload.State != concat.StateErrored || !strings.Contains(payload.Error, "encoder exited") || payload.Output != output {
		t.Fatalf("unexpected payload %+v", payload)
	}

	out, _, err = runCLI(t, []string{"runs", "show", payload.RunID}, env.configPath)
	if err != nil {
		t.Fatalf("runs show: %v", err)
	}
	requireContains(t, out, "errored")
	requireContains(t, out, "["+stage.NameTranscodeVideo+"]")
}

func TestConcatRequiresOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	useFakeEngines(t, &fakeEngines{})
	if _, _, err := runCLI(t, []string{"concat", "a.mp4"}, env.configPath); err == nil {
		t.Fatal("expected missing --output to fail")
	}
}
