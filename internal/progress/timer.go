package progress

import (
	"fmt"
	"sync"
	"time"
)

// Timer measures one named span of a run.
type Timer struct {
	name  string
	start time.Time
	now   func() time.Time

	once    sync.Once
	elapsed time.Duration
}

// StartTimer starts a named timer.
func StartTimer(name string) *Timer {
	return startTimerAt(name, time.Now)
}

func startTimerAt(name string, now func() time.Time) *Timer {
	return &Timer{name: name, start: now(), now: now}
}

// Name returns the timer label.
func (t *Timer) Name() string {
	return t.name
}

// Stop records the elapsed time and reports "<name>: <elapsed>" to sink.
// Only the first call reports; later calls return the recorded duration.
func (t *Timer) Stop(sink Sink) time.Duration {
	t.once.Do(func() {
		t.elapsed = t.now().Sub(t.start)
		sink.Emit(fmt.Sprintf("%s: %s", t.name, FormatDuration(t.elapsed)))
	})
	return t.elapsed
}

// FormatDuration renders durations the way timing lines show them.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Minute:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}
