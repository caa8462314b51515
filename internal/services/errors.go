package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrResource      = errors.New("resource error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
)

// Wrap tags err with marker and prefixes the message with stage and operation
// context. A nil marker classifies the failure as an external tool error.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrExternalTool
	}
	detail := joinDetail(stage, operation, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Hint suggests a next step for err, or "" when nothing specific applies.
// ErrExternalTool is checked last: stage failures match it as a whole, and
// the marker the engine attached underneath says more.
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "check the config with `splice config validate`"
	case errors.Is(err, ErrNotFound):
		return "verify the input paths exist"
	case errors.Is(err, ErrResource):
		return "check free disk space and workspace permissions"
	case errors.Is(err, ErrTimeout):
		return "retry with fewer concurrent workers"
	case errors.Is(err, ErrValidation):
		return "check the clip and audio arguments"
	case errors.Is(err, ErrExternalTool):
		return "run `splice doctor` to verify ffmpeg and ffprobe"
	default:
		return ""
	}
}

func joinDetail(parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "failure"
	}
	return strings.Join(kept, ": ")
}
