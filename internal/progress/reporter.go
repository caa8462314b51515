package progress

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Reporter formats one stage's fractional progress for a Sink.
//
// Values are clamped to [0, 1] and never fall below the highest value already
// reported, so a stage that reports out of order still produces a
// non-decreasing stream. Every Update emits exactly one message.
type Reporter struct {
	stage string
	sink  Sink

	mu  sync.Mutex
	max float64
}

// NewReporter returns a Reporter that prefixes messages with stage.
func NewReporter(stage string, sink Sink) *Reporter {
	return &Reporter{stage: stage, sink: sink.OrNop()}
}

// Update records fraction and forwards "<stage> <pct>%".
func (r *Reporter) Update(fraction float64) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if math.IsNaN(fraction) {
		fraction = r.max
	}
	fraction = min(max(fraction, 0), 1)
	if fraction < r.max {
		fraction = r.max
	}
	r.max = fraction
	r.sink.Emit(FormatPercent(r.stage, fraction))
}

// Func adapts the reporter to a plain progress callback.
func (r *Reporter) Func() func(float64) {
	return r.Update
}

func (r *Reporter) last() float64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.max
}

// FormatPercent renders the canonical progress line for stage.
func FormatPercent(stage string, fraction float64) string {
	return fmt.Sprintf("%s %d%%", stage, int(math.Round(fraction*100)))
}

// ParsePercent splits a FormatPercent line back into stage and percent.
func ParsePercent(line string) (string, int, bool) {
	stage, rest, ok := strings.Cut(strings.TrimSpace(line), " ")
	if !ok || stage == "" || !strings.HasSuffix(rest, "%") {
		return "", 0, false
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(rest, "%"))
	if err != nil || pct < 0 || pct > 100 {
		return "", 0, false
	}
	return stage, pct, true
}
