package render

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// solid returns a width x 1 RGBA row filled with v.
func solid(width int, v byte) []byte {
	return bytes.Repeat([]byte{v, v, v, 255}, width)
}

func TestFadeMidpoint(t *testing.T) {
	dst := make([]byte, 8)
	fade(dst, solid(2, 0), solid(2, 200), 2, 1, 0.5)
	if diff := cmp.Diff(solid(2, 100), dst); diff != "" {
		t.Fatalf("unexpected fade (-want +got):\n%s", diff)
	}
}

func TestFadeBlackPassesThroughBlack(t *testing.T) {
	dst := make([]byte, 4)
	fadeBlack(dst, solid(1, 200), solid(1, 100), 1, 1, 0.5)
	if dst[0] != 0 || dst[3] != 255 {
		t.Fatalf("expected black opaque midpoint, got %v", dst)
	}
	fadeBlack(dst, solid(1, 200), solid(1, 100), 1, 1, 0.75)
	if dst[0] != 50 {
		t.Fatalf("expected half of incoming at 0.75, got %v", dst)
	}
}

func TestWipes(t *testing.T) {
	from, to := solid(4, 10), solid(4, 90)
	dst := make([]byte, 16)

	wipeLeft(dst, from, to, 4, 1, 0.5)
	want := append(solid(2, 10), solid(2, 90)...)
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Fatalf("unexpected wipeleft (-want +got):\n%s", diff)
	}

	wipeRight(dst, from, to, 4, 1, 0.25)
	want = append(solid(1, 90), solid(3, 10)...)
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Fatalf("unexpected wiperight (-want +got):\n%s", diff)
	}
}

func TestSlideLeft(t *testing.T) {
	from := []byte{1, 1, 1, 255, 2, 2, 2, 255, 3, 3, 3, 255, 4, 4, 4, 255}
	to := []byte{5, 5, 5, 255, 6, 6, 6, 255, 7, 7, 7, 255, 8, 8, 8, 255}
	dst := make([]byte, 16)
	slideLeft(dst, from, to, 4, 1, 0.5)
	want := []byte{3, 3, 3, 255, 4, 4, 4, 255, 5, 5, 5, 255, 6, 6, 6, 255}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Fatalf("unexpected slideleft (-want +got):\n%s", diff)
	}
}

func TestLookupAndNames(t *testing.T) {
	if _, ok := Lookup(" FADE "); !ok {
		t.Fatal("expected case-insensitive lookup")
	}
	if _, ok := Lookup("dissolve"); ok {
		t.Fatal("expected unknown transition")
	}
	want := []string{"fade", "fadeblack", "slideleft", "wipeleft", "wiperight"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
}
