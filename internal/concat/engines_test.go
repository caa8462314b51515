package concat

import (
	"context"
	"testing"
	"time"

	"splice/internal/config"
	"splice/internal/logging"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = "/scratch"
	cfg.Pipeline.Concurrency = 6
	cfg.Pipeline.FrameFormat = "png"
	cfg.Pipeline.CleanupFrames = false
	cfg.Pipeline.Transition = "fade"
	cfg.Pipeline.TransitionDurationMS = 750

	opts := OptionsFromConfig(&cfg)
	if opts.Concurrency != 6 || opts.FrameFormat != "png" || opts.WorkingDir != "/scratch" || !opts.KeepFrames {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.Transition == nil || opts.Transition.Name != "fade" || opts.Transition.Duration != 750*time.Millisecond {
		t.Fatalf("unexpected transition %+v", opts.Transition)
	}

	cfg.Pipeline.Transition = ""
	cfg.Pipeline.CleanupFrames = true
	opts = OptionsFromConfig(&cfg)
	if opts.Transition != nil || opts.KeepFrames {
		t.Fatalf("expected hard cuts with cleanup, got %+v", opts)
	}
}

func TestDefaultEnginesReportHealth(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cfg := config.Default()
	p := New(DefaultEngines(&cfg, logging.NewNop()))
	health := p.Health(context.Background())
	if len(health) != 3 {
		t.Fatalf("expected 3 engines, got %d", len(health))
	}
	if health[0].Ready || !health[1].Ready || health[2].Ready {
		t.Fatalf("expected ffmpeg-backed engines unhealthy without binaries, got %+v", health)
	}
}
