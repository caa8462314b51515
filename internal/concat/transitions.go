package concat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"splice/internal/stage"
)

// ParseTransition reads "name" or "name:ms". A bare name takes
// defaultDuration; "cut" and "none" need no duration.
func ParseTransition(raw string, defaultDuration time.Duration) (stage.Transition, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return stage.Transition{}, &ConfigError{Field: "transition", Reason: "empty transition"}
	}
	name, rawMS, hasDuration := strings.Cut(raw, ":")
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return stage.Transition{}, &ConfigError{Field: "transition", Reason: fmt.Sprintf("%q has no name", raw)}
	}
	t := stage.Transition{Name: name, Duration: defaultDuration}
	if !hasDuration {
		return t, nil
	}
	ms, err := strconv.Atoi(strings.TrimSpace(rawMS))
	if err != nil || ms < 0 {
		return stage.Transition{}, &ConfigError{
			Field:  "transition",
			Reason: fmt.Sprintf("%q: duration must be a non-negative number of milliseconds", raw),
		}
	}
	t.Duration = time.Duration(ms) * time.Millisecond
	return t, nil
}

// ParseTransitionList reads a comma-separated list of ParseTransition specs,
// one per clip boundary.
func ParseTransitionList(raw string, defaultDuration time.Duration) ([]stage.Transition, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]stage.Transition, 0, len(parts))
	for _, part := range parts {
		t, err := ParseTransition(part, defaultDuration)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
