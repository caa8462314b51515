package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"splice/internal/logging"
)

func makeWorkspaceDir(t *testing.T, base, name string, age time.Duration) string {
	t.Helper()
	dir := filepath.Join(base, name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, LockFileName), nil, 0o644); err != nil {
		t.Fatalf("create lock file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "frame-000000000000.raw"), make([]byte, 64), 0o644); err != nil {
		t.Fatalf("create frame: %v", err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(dir, stamp, stamp); err != nil {
		t.Fatalf("set time: %v", err)
	}
	return dir
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, CleanOptions{MaxAge: time.Hour}, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldWorkspaces(t *testing.T) {
	base := t.TempDir()
	oldDir := makeWorkspaceDir(t, base, "old", 2*time.Hour)
	recentDir := makeWorkspaceDir(t, base, "recent", 0)

	result := CleanStale(context.Background(), base, CleanOptions{MaxAge: time.Hour}, logging.NewNop())

	if len(result.Removed) != 1 || result.Removed[0] != oldDir {
		t.Fatalf("unexpected removals: %v", result.Removed)
	}
	if result.Freed != 64 {
		t.Fatalf("expected 64 bytes freed, got %d", result.Freed)
	}
	if _, err := os.Stat(oldDir); !os.IsNotExist(err) {
		t.Error("old workspace should have been removed")
	}
	if _, err := os.Stat(recentDir); err != nil {
		t.Error("recent workspace should still exist")
	}
}

func TestCleanStaleDryRunKeepsFiles(t *testing.T) {
	base := t.TempDir()
	oldDir := makeWorkspaceDir(t, base, "old", 2*time.Hour)

	result := CleanStale(context.Background(), base, CleanOptions{MaxAge: time.Hour, DryRun: true}, logging.NewNop())
	if len(result.Removed) != 1 || result.Removed[0] != oldDir || result.Freed != 64 {
		t.Fatalf("unexpected dry-run result: %+v", result)
	}
	if _, err := os.Stat(oldDir); err != nil {
		t.Fatalf("dry run must not delete: %v", err)
	}
}

func TestCleanStaleHonorsCancellation(t *testing.T) {
	base := t.TempDir()
	oldDir := makeWorkspaceDir(t, base, "old", 2*time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := CleanStale(ctx, base, CleanOptions{MaxAge: time.Hour}, logging.NewNop())
	if len(result.Removed) != 0 || len(result.Errors) != 1 {
		t.Fatalf("expected cancellation error only, got %+v", result)
	}
	if _, err := os.Stat(oldDir); err != nil {
		t.Fatalf("cancelled sweep must not delete: %v", err)
	}
}

func TestCleanStaleIgnoresForeignDirectories(t *testing.T) {
	base := t.TempDir()
	foreign := filepath.Join(base, "not-ours")
	if err := os.Mkdir(foreign, 0o755); err != nil {
		t.Fatal(err)
	}
	stamp := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(foreign, stamp, stamp); err != nil {
		t.Fatal(err)
	}

	result := CleanStale(context.Background(), base, CleanOptions{MaxAge: time.Hour}, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Fatalf("expected foreign directory untouched, removed %v", result.Removed)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Fatal("foreign directory should still exist")
	}
}

func TestCleanStaleSkipsLockedWorkspace(t *testing.T) {
	base := t.TempDir()
	ws, err := Acquire(base)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer Release(ws, nil)
	stamp := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(ws.Path, stamp, stamp); err != nil {
		t.Fatal(err)
	}

	result := CleanStale(context.Background(), base, CleanOptions{MaxAge: time.Hour}, logging.NewNop())
	if len(result.Removed) != 0 {
		t.Fatalf("expected live workspace to survive, removed %v", result.Removed)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != ws.Path {
		t.Fatalf("expected live workspace to be skipped, got %v", result.Skipped)
	}
}

func TestListDirectories(t *testing.T) {
	base := t.TempDir()
	older := makeWorkspaceDir(t, base, "older", 3*time.Hour)
	newer := makeWorkspaceDir(t, base, "newer", time.Hour)
	if err := os.Mkdir(filepath.Join(base, "unrelated"), 0o755); err != nil {
		t.Fatal(err)
	}

	dirs, err := ListDirectories(base)
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("expected 2 workspaces, got %d", len(dirs))
	}
	if dirs[0].Path != older || dirs[1].Path != newer {
		t.Fatalf("expected oldest first, got %q then %q", dirs[0].Path, dirs[1].Path)
	}
	if dirs[0].Size != 64 || dirs[0].Files != 1 {
		t.Fatalf("unexpected size accounting: %+v", dirs[0])
	}
	if dirs[0].Locked {
		t.Fatal("expected unlocked workspace")
	}

	missing, err := ListDirectories(filepath.Join(base, "missing"))
	if err != nil || missing != nil {
		t.Fatalf("expected nil result for missing base, got %v %v", missing, err)
	}
}
