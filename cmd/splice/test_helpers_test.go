package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"splice/internal/concat"
	"splice/internal/config"
	"splice/internal/stage"
	"splice/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithHistory())
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	t.Setenv(config.EnvConfigPath, "")

	configPath := filepath.Join(homeDir, ".config", "splice", "config.toml")
	testsupport.WriteConfigFile(t, cfg, configPath)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// useFakeEngines swaps the ffmpeg-backed engines for in-process fakes.
func useFakeEngines(t *testing.T, engines *fakeEngines) {
	t.Helper()
	previous := newEngines
	newEngines = func(*config.Config, *slog.Logger) concat.Engines {
		return concat.Engines{Initializer: engines, Renderer: engines, Transcoder: engines}
	}
	t.Cleanup(func() { newEngines = previous })
}

type fakeEngines struct {
	failTranscode bool

	mu         sync.Mutex
	transcoded []stage.TranscodeRequest
}

func (f *fakeEngines) HealthCheck(context.Context) stage.Health { return stage.Healthy("fake") }

func (f *fakeEngines) InitFrames(_ context.Context, req stage.InitRequest) (stage.InitResult, error) {
	theme := stage.Theme{
		Width:       320,
		Height:      240,
		FPS:         30,
		FrameFormat: req.FrameFormat,
		NumFrames:   60 * len(req.Videos),
		Duration:    2 * time.Second * time.Duration(len(req.Videos)),
	}
	return stage.InitResult{Theme: theme}, nil
}

func (f *fakeEngines) RenderFrames(_ context.Context, req stage.RenderRequest) (string, error) {
	stage.Report(req.OnProgress, 0.5)
	stage.Report(req.OnProgress, 1)
	return filepath.Join(req.OutputDir, "frame-%012d."+req.FrameFormat), nil
}

func (f *fakeEngines) Transcode(_ context.Context, req stage.TranscodeRequest) error {
	f.mu.Lock()
	f.transcoded = append(f.transcoded, req)
	f.mu.Unlock()
	if f.failTranscode {
		return errors.New("encoder exited with status 1")
	}
	stage.Report(req.OnProgress, 1)
	return os.WriteFile(req.Output, []byte("video"), 0o644)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
