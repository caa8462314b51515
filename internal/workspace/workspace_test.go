package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"splice/internal/logging"
	"splice/internal/services"
)

func TestAcquireUnderBaseDir(t *testing.T) {
	base := t.TempDir()
	ws, err := Acquire(base)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	t.Cleanup(func() { _ = Release(ws, nil) })

	if filepath.Dir(ws.Path) != base {
		t.Fatalf("workspace %q not under base %q", ws.Path, base)
	}
	if filepath.Base(ws.Path) != ws.Token {
		t.Fatalf("expected directory name to be the token, got %q", filepath.Base(ws.Path))
	}
	if len(ws.Token) != 32 {
		t.Fatalf("expected 32 char token, got %d", len(ws.Token))
	}
	if !filepath.IsAbs(ws.Path) {
		t.Fatalf("expected absolute path, got %q", ws.Path)
	}
	if !IsWorkspace(ws.Path) {
		t.Fatal("expected lock file in workspace")
	}
	locked, err := IsLocked(ws.Path)
	if err != nil || !locked {
		t.Fatalf("expected workspace to be locked (locked=%v err=%v)", locked, err)
	}
}

func TestAcquireWithoutBaseUsesTempDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	ws, err := Acquire("")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer Release(ws, nil)
	if filepath.Dir(ws.Path) != tmp {
		t.Fatalf("expected workspace in %q, got %q", tmp, ws.Path)
	}
}

func TestAcquireTokensAreUnique(t *testing.T) {
	base := t.TempDir()
	seen := map[string]bool{}
	for range 20 {
		ws, err := Acquire(base)
		if err != nil {
			t.Fatalf("Acquire: %v", err)
		}
		if seen[ws.Path] {
			t.Fatalf("duplicate workspace %q", ws.Path)
		}
		seen[ws.Path] = true
		if err := Release(ws, nil); err != nil {
			t.Fatalf("Release: %v", err)
		}
	}
}

func TestAcquireRejectsUnusableBase(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, base := range []string{filepath.Join(root, "missing"), file} {
		ws, err := Acquire(base)
		if err == nil {
			Release(ws, nil)
			t.Fatalf("expected error for base %q", base)
		}
		var resErr *ResourceError
		if !errors.As(err, &resErr) {
			t.Fatalf("expected ResourceError, got %T", err)
		}
		if !errors.Is(err, services.ErrResource) {
			t.Fatal("expected ResourceError to match services.ErrResource")
		}
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 1 {
		t.Fatalf("expected no directories created, got %d entries", len(entries))
	}
}

func TestReleaseRemovesAndIsIdempotent(t *testing.T) {
	ws, err := Acquire(t.TempDir())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	nested := filepath.Join(ws.Path, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "frame"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Release(ws, logging.NewNop()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(ws.Path); !os.IsNotExist(err) {
		t.Fatalf("expected workspace removed, stat err=%v", err)
	}
	if !ws.isReleased() {
		t.Fatal("expected workspace marked released")
	}
	if err := Release(ws, nil); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	if err := Release(nil, nil); err != nil {
		t.Fatalf("nil Release: %v", err)
	}
}

func TestReleaseToleratesMissingDirectory(t *testing.T) {
	ws, err := Acquire(t.TempDir())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := os.RemoveAll(ws.Path); err != nil {
		t.Fatal(err)
	}
	if err := Release(ws, nil); err != nil {
		t.Fatalf("expected absent workspace to release cleanly, got %v", err)
	}
}

func TestKeepUnlocksWithoutRemoving(t *testing.T) {
	ws, err := Acquire(t.TempDir())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if locked, err := IsLocked(ws.Path); err != nil || !locked {
		t.Fatalf("expected fresh workspace locked, got %v (%v)", locked, err)
	}

	if err := Keep(ws); err != nil {
		t.Fatalf("Keep: %v", err)
	}
	if locked, err := IsLocked(ws.Path); err != nil || locked {
		t.Fatalf("expected kept workspace unlocked, got %v (%v)", locked, err)
	}
	if err := Release(ws, nil); err != nil {
		t.Fatalf("Release after Keep: %v", err)
	}
	if _, err := os.Stat(ws.Path); err != nil {
		t.Fatalf("expected kept workspace to survive Release: %v", err)
	}
	if err := Keep(ws); err != nil {
		t.Fatalf("second Keep: %v", err)
	}
	if err := Keep(nil); err != nil {
		t.Fatalf("nil Keep: %v", err)
	}
}
