// Package render implements the frame-rendering stage.
//
// Frames outside a transition are hard linked (or copied) from the extracted
// clip frames. Transition frames are decoded from both clips, blended on the
// CPU, and written back in the run's frame format: raw RGBA buffers or PNG.
// The output is a contiguous, 0-based numbered sequence that the transcoder
// reads through the returned pattern.
package render
