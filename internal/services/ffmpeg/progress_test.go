package ffmpeg

import "testing"

func TestParseProgressLine(t *testing.T) {
	cases := []struct {
		line      string
		key, val  string
		wantMatch bool
	}{
		{"frame=42", "frame", "42", true},
		{"  out_time_ms = 1000 ", "out_time_ms", "1000", true},
		{"progress=end", "progress", "end", true},
		{"no separator", "", "", false},
		{"=value", "", "", false},
	}
	for _, tc := range cases {
		key, val, ok := ParseProgressLine(tc.line)
		if ok != tc.wantMatch || key != tc.key || val != tc.val {
			t.Fatalf("ParseProgressLine(%q) = %q %q %v", tc.line, key, val, ok)
		}
	}
}

func TestProgressTrackerFractions(t *testing.T) {
	tracker := NewProgressTracker(100)

	if p, ok := tracker.Feed("frame=25"); !ok || p != 0.25 {
		t.Fatalf("expected 0.25, got %v %v", p, ok)
	}
	if _, ok := tracker.Feed("frame=20"); ok {
		t.Fatal("expected regression to be ignored")
	}
	if _, ok := tracker.Feed("fps=30.0"); ok {
		t.Fatal("expected unrelated keys to be ignored")
	}
	if p, ok := tracker.Feed("frame=250"); !ok || p != 1 {
		t.Fatalf("expected fraction capped at 1, got %v %v", p, ok)
	}
	if _, ok := tracker.Feed("progress=end"); ok {
		t.Fatal("end after completion should not emit again")
	}
}

func TestProgressTrackerEndWithoutFrames(t *testing.T) {
	tracker := NewProgressTracker(0)
	if _, ok := tracker.Feed("frame=10"); ok {
		t.Fatal("unknown total should not produce fractions")
	}
	if p, ok := tracker.Feed("progress=end"); !ok || p != 1 {
		t.Fatalf("expected end to report completion, got %v %v", p, ok)
	}
}
