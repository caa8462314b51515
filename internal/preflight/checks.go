package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"splice/internal/config"
	"splice/internal/deps"
)

const versionTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that path is a directory the current user can
// list and write into.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, 0)
}

// CheckWorkspaceSpace is CheckDirectoryAccess plus a free space floor. The
// detail always reports how much space is available.
func CheckWorkspaceSpace(name, path string, minFree uint64) Result {
	return checkDirectory(name, path, minFree)
}

func checkDirectory(name, path string, minFree uint64) Result {
	fail := func(format string, args ...any) Result {
		return Result{Name: name, Detail: path + " (" + fmt.Sprintf(format, args...) + ")"}
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fail("missing")
	case err != nil:
		return fail("stat: %v", err)
	case !info.IsDir():
		return fail("not a directory")
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail("not writable: %v", err)
	}
	if minFree == 0 {
		return Result{Name: name, Passed: true, Detail: path + " (writable)"}
	}

	free, err := freeBytes(path)
	if err != nil {
		return fail("statfs: %v", err)
	}
	if free < minFree {
		return fail("%s free, need %s", humanize.IBytes(free), humanize.IBytes(minFree))
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s free)", path, humanize.IBytes(free))}
}

func freeBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil
}

// CheckToolVersion runs "<binary> -version" and reports the first non-empty
// line of its output.
func CheckToolVersion(ctx context.Context, name, binary string) Result {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Result{Name: name, Detail: "binary not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "-version").Output() //nolint:gosec
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s -version: %v", binary, err)}
	}
	for line := range strings.Lines(string(out)) {
		if line = strings.TrimSpace(line); line != "" {
			return Result{Name: name, Passed: true, Detail: line}
		}
	}
	return Result{Name: name, Passed: true, Detail: "version unknown"}
}

// CheckSystemDeps resolves the configured ffmpeg and ffprobe binaries.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.Check(deps.Tools(cfg.FFmpeg.FFmpegBinary, cfg.FFmpeg.FFprobeBinary)...)
}
