package preflight

import (
	"context"
	"strings"

	"splice/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks the configured directories and tool versions. The workspace
// base must also have cfg.MinFree() available; raw RGBA frames for a short
// 1080p clip already run to several GiB. The log directory is only checked
// when one is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckWorkspaceSpace("Workspace directory", cfg.WorkspaceBase(), cfg.MinFree()),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}
	if logDir := strings.TrimSpace(cfg.Paths.LogDir); logDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", logDir))
	}
	return append(results,
		CheckToolVersion(ctx, "FFmpeg version", cfg.FFmpeg.FFmpegBinary),
		CheckToolVersion(ctx, "FFprobe version", cfg.FFmpeg.FFprobeBinary),
	)
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	return len(Failed(results)) == 0
}
