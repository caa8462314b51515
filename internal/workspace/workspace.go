package workspace

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"splice/internal/logging"
)

const (
	// LockFileName marks a directory as a splice workspace.
	LockFileName = ".splice.lock"
	tokenBytes   = 16
	tempPrefix   = "splice-"
)

// Workspace is one run's transient directory.
type Workspace struct {
	Path  string
	Token string

	lock     *flock.Flock
	mu       sync.Mutex
	released bool
}

// NewToken returns a random 32 character hex token.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Acquire creates a workspace. With a non-empty baseDir the directory is
// baseDir/<token>; baseDir must already exist and be writable. The single
// creation attempt is never retried. With an empty baseDir the system temp
// directory is used.
func Acquire(baseDir string) (*Workspace, error) {
	token, err := NewToken()
	if err != nil {
		return nil, &ResourceError{Op: "generate token", Err: err}
	}

	var path string
	baseDir = strings.TrimSpace(baseDir)
	if baseDir != "" {
		if err := checkWritableDir(baseDir); err != nil {
			return nil, &ResourceError{Path: baseDir, Op: "check base", Err: err}
		}
		path = filepath.Join(baseDir, token)
		if err := os.Mkdir(path, 0o755); err != nil {
			return nil, &ResourceError{Path: path, Op: "create", Err: err}
		}
	} else {
		path, err = os.MkdirTemp("", tempPrefix)
		if err != nil {
			return nil, &ResourceError{Op: "create temp", Err: err}
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		_ = os.RemoveAll(path)
		return nil, &ResourceError{Path: path, Op: "resolve", Err: err}
	}

	lock := flock.New(filepath.Join(abs, LockFileName))
	locked, err := lock.TryLock()
	if err == nil && !locked {
		err = errors.New("lock already held")
	}
	if err != nil {
		_ = os.RemoveAll(abs)
		return nil, &ResourceError{Path: abs, Op: "lock", Err: err}
	}

	return &Workspace{Path: abs, Token: token, lock: lock}, nil
}

// Release unlocks and removes the workspace. It is safe to call more than
// once and on a nil workspace; only the first call does any work. A removal
// failure is logged as a warning and returned as *CleanupWarning.
func Release(ws *Workspace, logger *slog.Logger) error {
	if ws == nil {
		return nil
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.released {
		return nil
	}
	ws.released = true

	var errs []error
	if ws.lock != nil {
		if err := ws.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("unlock: %w", err))
		}
	}
	if err := os.RemoveAll(ws.Path); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}

	warning := &CleanupWarning{Path: ws.Path, Err: errors.Join(errs...)}
	if logger != nil {
		logging.WarnWithContext(logger, "workspace cleanup failed", "workspace_cleanup_failed",
			logging.String("workspace", ws.Path),
			logging.Error(warning.Err),
			logging.String(logging.FieldErrorHint, "remove the directory manually or run splice workspaces clean"),
			logging.Impact("intermediate frames left on disk"),
		)
	}
	return warning
}

// Keep drops the workspace lock and leaves the directory and its frames on
// disk. A kept workspace counts as released: later Release calls do nothing,
// and `splice workspaces clean` may sweep it once it is stale.
func Keep(ws *Workspace) error {
	if ws == nil {
		return nil
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.released {
		return nil
	}
	ws.released = true
	if ws.lock == nil {
		return nil
	}
	if err := ws.lock.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", ws.Path, err)
	}
	return nil
}

func (ws *Workspace) isReleased() bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.released
}

func checkWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := unix.Access(dir, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	return nil
}
