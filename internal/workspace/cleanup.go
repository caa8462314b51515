package workspace

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"splice/internal/logging"
)

// DirInfo describes one workspace directory under a base.
type DirInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"modified"`
	Size    int64     `json:"size_bytes"`
	Files   int       `json:"files"`
	Locked  bool      `json:"in_use"`
}

// CleanOptions selects which workspaces a sweep removes.
type CleanOptions struct {
	// MaxAge is the minimum time since last modification.
	MaxAge time.Duration
	// DryRun reports what would be removed without deleting anything.
	DryRun bool
}

// CleanStaleResult is the outcome of a sweep. With DryRun set, Removed lists
// the workspaces that would have been deleted.
type CleanStaleResult struct {
	Removed []string
	Skipped []string
	Errors  []CleanupError
	Freed   int64
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// IsWorkspace reports whether dir carries the workspace lock file.
func IsWorkspace(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, LockFileName))
	return err == nil && info.Mode().IsRegular()
}

// IsLocked reports whether a live run holds the workspace lock in dir.
func IsLocked(dir string) (bool, error) {
	lock := flock.New(filepath.Join(dir, LockFileName))
	acquired, err := lock.TryLock()
	if err != nil {
		return false, err
	}
	if !acquired {
		return true, nil
	}
	return false, lock.Unlock()
}

// ListDirectories returns every workspace under baseDir, oldest first. A
// blank or missing base yields no entries. Directories without a lock file
// are not workspaces and are left out.
func ListDirectories(baseDir string) ([]DirInfo, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(baseDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var dirs []DirInfo
	for _, entry := range entries {
		dirPath := filepath.Join(baseDir, entry.Name())
		if !entry.IsDir() || !IsWorkspace(dirPath) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		size, files := dirSize(dirPath)
		locked, _ := IsLocked(dirPath)
		dirs = append(dirs, DirInfo{
			Name:    entry.Name(),
			Path:    dirPath,
			ModTime: info.ModTime(),
			Size:    size,
			Files:   files,
			Locked:  locked,
		})
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].ModTime.Before(dirs[j].ModTime) })
	return dirs, nil
}

// CleanStale removes workspaces under baseDir untouched for opts.MaxAge whose
// lock no live run holds.
func CleanStale(ctx context.Context, baseDir string, opts CleanOptions, logger *slog.Logger) CleanStaleResult {
	var result CleanStaleResult
	if logger == nil {
		logger = logging.NewNop()
	}
	dirs, err := ListDirectories(baseDir)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: baseDir, Error: err})
		return result
	}

	cutoff := time.Now().Add(-opts.MaxAge)
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: baseDir, Error: err})
			return result
		}
		if !dir.ModTime.Before(cutoff) {
			continue
		}
		// Re-check: a run may have started since the listing.
		locked, err := IsLocked(dir.Path)
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir.Path, Error: err})
			continue
		}
		if locked {
			result.Skipped = append(result.Skipped, dir.Path)
			logger.Debug("skipping workspace in use",
				logging.String("path", dir.Path),
				logging.Event("workspace_cleanup_skipped"),
			)
			continue
		}
		if !opts.DryRun {
			if err := os.RemoveAll(dir.Path); err != nil {
				result.Errors = append(result.Errors, CleanupError{Path: dir.Path, Error: err})
				logging.WarnWithContext(logger, "failed to remove stale workspace", "workspace_cleanup_failed",
					logging.String("path", dir.Path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check workspace_dir permissions"),
					logging.Impact("disk space not reclaimed"),
				)
				continue
			}
			logger.Info("removed stale workspace",
				logging.String("path", dir.Path),
				logging.Duration("age", time.Since(dir.ModTime)),
				logging.Int64("bytes", dir.Size),
				logging.Event("workspace_cleanup"),
			)
		}
		result.Removed = append(result.Removed, dir.Path)
		result.Freed += dir.Size
	}
	return result
}

// dirSize totals regular file sizes under path, best effort. The lock file
// is not counted.
func dirSize(path string) (int64, int) {
	var size int64
	var files int
	_ = filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() || d.Name() == LockFileName {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
			files++
		}
		return nil
	})
	return size, files
}
