package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const historyFileName = "history.db"

// EnsureDirectories creates the state and log directories. The workspace base
// is left alone: a missing base is reported when a run tries to use it.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the run journal database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, historyFileName)
}

// WorkspaceBase returns the directory that holds run workspaces, falling back
// to the platform temp directory.
func (c *Config) WorkspaceBase() string {
	if dir := strings.TrimSpace(c.Paths.WorkspaceDir); dir != "" {
		return dir
	}
	return os.TempDir()
}

// MinFree is the workspace free space floor in bytes.
func (c *Config) MinFree() uint64 {
	return uint64(c.Workspace.MinFreeMB) << 20
}

// StaleAfter is the age after which an unlocked workspace counts as leftover.
func (c *Config) StaleAfter() time.Duration {
	return time.Duration(c.Workspace.StaleAfterHours) * time.Hour
}

// ExpandPath resolves a leading ~ and returns a cleaned absolute path. Blank
// input stays blank.
func ExpandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") || strings.HasPrefix(value, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, value[1:])
	}
	absolute, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return absolute, nil
}
