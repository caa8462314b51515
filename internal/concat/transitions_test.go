package concat

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"splice/internal/services"
	"splice/internal/stage"
)

func TestParseTransition(t *testing.T) {
	def := 500 * time.Millisecond
	tests := []struct {
		in   string
		want stage.Transition
	}{
		{"fade", stage.Transition{Name: "fade", Duration: def}},
		{" WipeLeft:750 ", stage.Transition{Name: "wipeleft", Duration: 750 * time.Millisecond}},
		{"fadeblack:0", stage.Transition{Name: "fadeblack"}},
		{"cut", stage.Transition{Name: "cut", Duration: def}},
	}
	for _, tc := range tests {
		got, err := ParseTransition(tc.in, def)
		if err != nil {
			t.Fatalf("ParseTransition(%q): %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("ParseTransition(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}

	for _, bad := range []string{"", ":500", "fade:abc", "fade:-1"} {
		_, err := ParseTransition(bad, def)
		if !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("ParseTransition(%q): expected configuration error, got %v", bad, err)
		}
	}
}

func TestParseTransitionList(t *testing.T) {
	got, err := ParseTransitionList("fade:250,cut,slideleft", time.Second)
	if err != nil {
		t.Fatalf("ParseTransitionList: %v", err)
	}
	want := []stage.Transition{
		{Name: "fade", Duration: 250 * time.Millisecond},
		{Name: "cut", Duration: time.Second},
		{Name: "slideleft", Duration: time.Second},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	if got, err := ParseTransitionList("  ", time.Second); err != nil || got != nil {
		t.Fatalf("expected empty list, got %v, %v", got, err)
	}
	if _, err := ParseTransitionList("fade,,cut", time.Second); err == nil {
		t.Fatal("expected error for empty entry")
	}
}
