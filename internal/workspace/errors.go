package workspace

import (
	"fmt"

	"splice/internal/services"
)

// ResourceError reports that a workspace could not be created.
type ResourceError struct {
	Path string
	Op   string
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("workspace %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("workspace %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Is matches services.ErrResource.
func (e *ResourceError) Is(target error) bool { return target == services.ErrResource }

// CleanupWarning reports a failed workspace removal. It is never a run outcome.
type CleanupWarning struct {
	Path string
	Err  error
}

func (w *CleanupWarning) Error() string {
	return fmt.Sprintf("remove workspace %s: %v", w.Path, w.Err)
}

func (w *CleanupWarning) Unwrap() error { return w.Err }
