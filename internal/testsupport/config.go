package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"splice/internal/config"
	"splice/internal/fileutil"
)

// Option adjusts a configuration built by NewConfig.
type Option func(t testing.TB, cfg *config.Config)

// NewConfig returns defaults rooted in a per-test temp directory: workspaces
// under work/, state and logs under state/. The work directory exists and the
// free space check is off.
func NewConfig(t testing.TB, opts ...Option) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = filepath.Join(base, "work")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfg.Workspace.MinFreeMB = 0
	if err := os.MkdirAll(cfg.Paths.WorkspaceDir, 0o755); err != nil {
		t.Fatalf("mkdir workspace dir: %v", err)
	}
	for _, opt := range opts {
		opt(t, &cfg)
	}
	return &cfg
}

// BaseDir returns the temp directory NewConfig rooted cfg in.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkspaceDir)
}

// WithHistory turns the run journal on.
func WithHistory() Option {
	return func(_ testing.TB, cfg *config.Config) {
		cfg.History.Enabled = true
	}
}

// WithFrameFormat overrides the intermediate frame format.
func WithFrameFormat(format string) Option {
	return func(_ testing.TB, cfg *config.Config) {
		cfg.Pipeline.FrameFormat = format
	}
}

// WithTransition sets the default transition and its duration.
func WithTransition(name string, durationMS int) Option {
	return func(_ testing.TB, cfg *config.Config) {
		cfg.Pipeline.Transition = name
		cfg.Pipeline.TransitionDurationMS = durationMS
	}
}

// WithStubbedBinaries puts exit-0 stubs for names (default ffmpeg and
// ffprobe) first on PATH for the duration of the test.
func WithStubbedBinaries(names ...string) Option {
	return func(t testing.TB, cfg *config.Config) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		for _, name := range names {
			StubBinary(t, cfg, name, "exit 0")
		}
	}
}

// StubBinary writes a shell script named name running body into the bin
// directory beside cfg and prepends that directory to PATH.
func StubBinary(t testing.TB, cfg *config.Config, name, body string) string {
	t.Helper()
	binDir := filepath.Join(BaseDir(cfg), "bin")
	target := filepath.Join(binDir, name)
	if err := fileutil.WriteFileAtomic(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	if path := os.Getenv("PATH"); !hasPathEntry(path, binDir) {
		t.Setenv("PATH", binDir+string(os.PathListSeparator)+path)
	}
	return target
}

func hasPathEntry(pathList, dir string) bool {
	for _, entry := range filepath.SplitList(pathList) {
		if entry == dir {
			return true
		}
	}
	return false
}

// WriteConfigFile encodes cfg as TOML at path.
func WriteConfigFile(t testing.TB, cfg *config.Config, path string) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
