package render

import (
	"slices"
	"strings"
)

// Blend writes the mix of from and to at progress p into dst. All buffers are
// RGBA, width*height*4 bytes.
type Blend func(dst, from, to []byte, width, height int, p float64)

// DefaultTransition is used for unknown transition names.
const DefaultTransition = "fade"

var catalog = map[string]Blend{
	"fade":      fade,
	"fadeblack": fadeBlack,
	"wipeleft":  wipeLeft,
	"wiperight": wipeRight,
	"slideleft": slideLeft,
}

// Names lists the built-in transitions.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the blend for name.
func Lookup(name string) (Blend, bool) {
	blend, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	return blend, ok
}

func mix(a, b byte, p float64) byte {
	return byte(float64(a)*(1-p) + float64(b)*p + 0.5)
}

func fade(dst, from, to []byte, _, _ int, p float64) {
	for i := range dst {
		dst[i] = mix(from[i], to[i], p)
	}
}

func fadeBlack(dst, from, to []byte, _, _ int, p float64) {
	for i := range dst {
		if i%4 == 3 {
			dst[i] = mix(from[i], to[i], p)
			continue
		}
		if p < 0.5 {
			dst[i] = mix(from[i], 0, p*2)
		} else {
			dst[i] = mix(0, to[i], p*2-1)
		}
	}
}

// wipeLeft reveals the incoming frame from the right edge towards the left.
func wipeLeft(dst, from, to []byte, width, height int, p float64) {
	edge := int(float64(width) * (1 - p))
	for y := range height {
		row := y * width * 4
		for x := range width {
			i := row + x*4
			src := from
			if x >= edge {
				src = to
			}
			copy(dst[i:i+4], src[i:i+4])
		}
	}
}

// wipeRight reveals the incoming frame from the left edge towards the right.
func wipeRight(dst, from, to []byte, width, height int, p float64) {
	edge := int(float64(width) * p)
	for y := range height {
		row := y * width * 4
		for x := range width {
			i := row + x*4
			src := from
			if x < edge {
				src = to
			}
			copy(dst[i:i+4], src[i:i+4])
		}
	}
}

// slideLeft pushes the outgoing frame out to the left while the incoming
// frame follows from the right.
func slideLeft(dst, from, to []byte, width, height int, p float64) {
	offset := int(float64(width) * p)
	for y := range height {
		row := y * width * 4
		for x := range width {
			i := row + x*4
			var j int
			var src []byte
			if x < width-offset {
				src, j = from, row+(x+offset)*4
			} else {
				src, j = to, row+(x-(width-offset))*4
			}
			copy(dst[i:i+4], src[j:j+4])
		}
	}
}
