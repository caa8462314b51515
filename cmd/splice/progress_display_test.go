package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProgressDisplayLineModeSamples(t *testing.T) {
	var buf bytes.Buffer
	display := newProgressDisplay(&buf, false)
	sink := display.Sink()
	for _, line := range []string{"render-frames 0%", "render-frames 4%", "render-frames 12%", "render-frames: 800ms"} {
		sink(line)
	}
	display.Close()

	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"render-frames 0%", "render-frames 12%", "render-frames: 800ms"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("display output mismatch (-want +got):\n%s", diff)
	}
}

func TestProgressDisplayForJobPrefixesLines(t *testing.T) {
	var buf bytes.Buffer
	display := newProgressDisplay(&buf, true)
	display.forJob("intro").Sink()("transcode-video 100%")
	display.forJob("outro").Sink()("workspace kept at /tmp/w")

	out := buf.String()
	for _, want := range []string{"[intro] transcode-video 100%\n", "[outro] workspace kept at /tmp/w\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
