package concat

import (
	"fmt"

	"splice/internal/services"
	"splice/internal/workspace"
)

// ConfigError reports invalid run options. It is returned before any
// resource is acquired.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches services.ErrConfiguration.
func (e *ConfigError) Is(target error) bool { return target == services.ErrConfiguration }

// ResourceError reports that the workspace could not be created.
type ResourceError = workspace.ResourceError

// CleanupWarning reports a failed workspace removal; it is logged, never returned.
type CleanupWarning = workspace.CleanupWarning

// EngineError reports a failed stage. Err is the engine's own error.
type EngineError struct {
	Stage string
	Err   error
}

func (e *EngineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Stage)
	}
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// Is matches services.ErrExternalTool.
func (e *EngineError) Is(target error) bool { return target == services.ErrExternalTool }
