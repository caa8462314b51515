// Package history keeps a SQLite journal of concat runs so past outputs,
// failures and stage timings can be inspected after the terminal is gone.
//
// The journal is optional and lives at <state_dir>/history.db. Recording a
// run never affects its outcome: callers log and drop journal errors. The
// schema is versioned with PRAGMA user_version and upgraded on open.
package history
