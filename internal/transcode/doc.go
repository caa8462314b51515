// Package transcode implements the transcoding stage: it feeds the rendered
// frame sequence (and an optional audio track) to ffmpeg and writes the final
// container.
//
// The encode targets a hidden temporary file next to the output and is
// renamed into place only after ffmpeg succeeds, so a failed run never leaves
// a truncated or modified output file behind.
package transcode
