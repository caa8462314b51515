package stage

import (
	"testing"
	"time"
)

func TestTransitionIsCut(t *testing.T) {
	tests := []struct {
		name string
		in   Transition
		want bool
	}{
		{"zero", Transition{}, true},
		{"no duration", Transition{Name: "fade"}, true},
		{"no name", Transition{Duration: time.Second}, true},
		{"fade", Transition{Name: "fade", Duration: 500 * time.Millisecond}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.IsCut(); got != tt.want {
				t.Fatalf("IsCut() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReportToleratesNilCallback(t *testing.T) {
	Report(nil, 0.5)
	var got float64
	Report(func(p float64) { got = p }, 0.25)
	if got != 0.25 {
		t.Fatalf("expected callback to receive 0.25, got %v", got)
	}
}

func TestHealthConstructors(t *testing.T) {
	if h := Healthy("render"); !h.Ready || h.Name != "render" {
		t.Fatalf("unexpected healthy record: %+v", h)
	}
	if h := Unhealthy("transcode", "ffmpeg missing"); h.Ready || h.Detail != "ffmpeg missing" {
		t.Fatalf("unexpected unhealthy record: %+v", h)
	}
}

func TestUnready(t *testing.T) {
	hs := []Health{Healthy("render"), Unhealthy("transcode", "ffmpeg missing"), Healthy("init")}
	got := Unready(hs)
	if len(got) != 1 || got[0].Name != "transcode" {
		t.Fatalf("unexpected unready set: %+v", got)
	}
	if Unready(hs[:1]) != nil {
		t.Fatal("expected nil when every engine is ready")
	}
}
