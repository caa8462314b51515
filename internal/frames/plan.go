package frames

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"splice/internal/stage"
)

// Clip is an extracted input clip.
type Clip struct {
	// Pattern is a printf pattern taking the 0-based frame number.
	Pattern string
	Frames  int
}

// Boundary describes the join between clip i and clip i+1.
type Boundary struct {
	Transition string
	// Overlap is the number of output frames that blend both clips.
	Overlap int
}

// Explicit hard cut names accepted in per-boundary lists.
var cutNames = map[string]bool{"cut": true, "none": true}

// ClipPattern returns the extraction pattern for clip index i.
func ClipPattern(dir string, i int, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("clip-%d-%%012d.%s", i, ext))
}

// ResolveTransitions picks the transition for each of the n-1 boundaries
// between n clips. A per-boundary entry with a name wins over the global
// transition; "cut" or "none" forces a hard cut. The zero Transition means a
// hard cut.
func ResolveTransitions(n int, global *stage.Transition, per []stage.Transition) []stage.Transition {
	if n < 2 {
		return nil
	}
	out := make([]stage.Transition, n-1)
	for i := range out {
		var chosen stage.Transition
		if global != nil {
			chosen = *global
		}
		if i < len(per) {
			if name := strings.TrimSpace(per[i].Name); name != "" {
				chosen = per[i]
			}
		}
		chosen.Name = strings.ToLower(strings.TrimSpace(chosen.Name))
		if cutNames[chosen.Name] || chosen.IsCut() {
			chosen = stage.Transition{}
		}
		out[i] = chosen
	}
	return out
}

// OverlapFrames converts a transition duration into a frame count at fps.
func OverlapFrames(t stage.Transition, fps float64) int {
	if t.IsCut() || fps <= 0 {
		return 0
	}
	return int(math.Round(t.Duration.Seconds() * fps))
}

// ClampOverlaps limits each boundary so no clip contributes more frames to
// its transitions than it has. The outgoing clip can only give frames not
// already used by its incoming transition.
func ClampOverlaps(clips []Clip, boundaries []Boundary) []Boundary {
	out := make([]Boundary, len(boundaries))
	used := 0
	for i := range boundaries {
		b := boundaries[i]
		if i+1 >= len(clips) {
			b.Overlap = 0
		}
		if b.Overlap < 0 || b.Transition == "" {
			b.Overlap = 0
		}
		if i+1 < len(clips) {
			available := max(clips[i].Frames-used, 0)
			b.Overlap = min(b.Overlap, available, clips[i+1].Frames)
		}
		if b.Overlap == 0 {
			b.Transition = ""
		}
		out[i] = b
		used = b.Overlap
	}
	return out
}

// BuildPlan lays out the output frames. Each clip contributes its frames in
// order; across a boundary with overlap k, the last k frames of the outgoing
// clip are paired with the first k frames of the incoming clip. The total is
// the sum of clip frames minus the sum of overlaps. Boundaries are clamped
// with ClampOverlaps first.
func BuildPlan(clips []Clip, boundaries []Boundary) stage.FramePlan {
	boundaries = ClampOverlaps(clips, padBoundaries(boundaries, len(clips)))

	total := 0
	for _, c := range clips {
		total += max(c.Frames, 0)
	}
	for _, b := range boundaries {
		total -= b.Overlap
	}
	plan := make(stage.FramePlan, 0, max(total, 0))

	start := 0
	for i, clip := range clips {
		overlap := 0
		var boundary Boundary
		if i < len(boundaries) {
			boundary = boundaries[i]
			overlap = boundary.Overlap
		}
		end := clip.Frames - overlap
		for f := start; f < end; f++ {
			plan = append(plan, stage.Frame{
				Index:   len(plan),
				Current: fmt.Sprintf(clip.Pattern, f),
			})
		}
		for k := range overlap {
			plan = append(plan, stage.Frame{
				Index:      len(plan),
				Current:    fmt.Sprintf(clip.Pattern, end+k),
				Next:       fmt.Sprintf(clips[i+1].Pattern, k),
				Transition: boundary.Transition,
				Progress:   float64(k+1) / float64(overlap+1),
			})
		}
		start = overlap
	}
	return plan
}

func padBoundaries(boundaries []Boundary, clips int) []Boundary {
	want := max(clips-1, 0)
	if len(boundaries) >= want {
		return boundaries[:want]
	}
	out := make([]Boundary, want)
	copy(out, boundaries)
	return out
}

// ResolvedTransitions reports the transitions actually applied, with
// durations matching the clamped overlaps.
func ResolvedTransitions(boundaries []Boundary, fps float64) []stage.Transition {
	out := make([]stage.Transition, len(boundaries))
	for i, b := range boundaries {
		if b.Overlap == 0 || fps <= 0 {
			continue
		}
		out[i] = stage.Transition{
			Name:     b.Transition,
			Duration: time.Duration(float64(b.Overlap) / fps * float64(time.Second)),
		}
	}
	return out
}
