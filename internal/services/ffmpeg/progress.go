package ffmpeg

import (
	"strconv"
	"strings"
)

// ProgressTracker converts `-progress pipe:1` records into a completed
// fraction of a known frame count.
type ProgressTracker struct {
	total int
	last  float64
}

// NewProgressTracker returns a tracker for an encode of total frames.
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{total: total}
}

// Feed consumes one stdout line. It reports the new fraction and true when the
// line advanced progress.
func (p *ProgressTracker) Feed(line string) (float64, bool) {
	key, value, ok := ParseProgressLine(line)
	if !ok {
		return 0, false
	}
	switch key {
	case "frame":
		if p.total <= 0 {
			return 0, false
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return 0, false
		}
		fraction := float64(n) / float64(p.total)
		if fraction > 1 {
			fraction = 1
		}
		if fraction <= p.last {
			return 0, false
		}
		p.last = fraction
		return fraction, true
	case "progress":
		if value == "end" && p.last < 1 {
			p.last = 1
			return 1, true
		}
	}
	return 0, false
}

// ParseProgressLine splits a `key=value` progress record.
func ParseProgressLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}
