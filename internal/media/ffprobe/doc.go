// Package ffprobe runs ffprobe and decodes the stream and container fields
// splice needs to plan frames: dimensions, rotation, frame rate, frame count
// and duration.
package ffprobe
