// Package workspace owns the transient directories that hold intermediate
// frames for a pipeline run.
//
// Acquire creates a uniquely named directory, either under a caller-supplied
// base or in the system temp directory, and holds an exclusive lock file in
// it for as long as the run lives. Release drops the lock and removes the
// directory; its failures come back as *CleanupWarning values that callers
// log instead of returning. CleanStale and ListDirectories let the CLI find
// and sweep workspaces left behind by crashed or --keep-frames runs while
// skipping any directory whose lock is still held.
package workspace
