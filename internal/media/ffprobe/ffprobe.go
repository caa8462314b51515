package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// entries limits ffprobe output to the fields decoded below.
const entries = "stream=index,codec_type,codec_name,width,height,pix_fmt,avg_frame_rate,r_frame_rate,nb_frames,duration" +
	":stream_tags=rotate:stream_side_data=rotation:format=duration,format_name"

// Result is the decoded ffprobe payload.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

type Stream struct {
	Index        int        `json:"index"`
	CodecType    string     `json:"codec_type"`
	CodecName    string     `json:"codec_name"`
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	PixFmt       string     `json:"pix_fmt"`
	AvgFrameRate string     `json:"avg_frame_rate"`
	RFrameRate   string     `json:"r_frame_rate"`
	NBFrames     string     `json:"nb_frames"`
	Duration     string     `json:"duration"`
	Tags         Tags       `json:"tags"`
	SideData     []SideData `json:"side_data_list"`
}

type Tags struct {
	Rotate string `json:"rotate"`
}

type SideData struct {
	Rotation float64 `json:"rotation"`
}

type Format struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

// Error reports a failed ffprobe invocation along with its stderr.
type Error struct {
	Path   string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffprobe %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("ffprobe %s: %v: %s", e.Path, e.Err, e.Stderr)
}

func (e *Error) Unwrap() error { return e.Err }

// Inspect runs binary (default "ffprobe") against path.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe: empty path")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner",
		"-show_entries", entries, "-of", "json", "--", path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Result{}, &Error{Path: path, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return Parse(stdout.Bytes())
}

// Parse decodes ffprobe JSON output.
func Parse(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe: decode output: %w", err)
	}
	return result, nil
}

// Video returns the first video stream.
func (r Result) Video() (Stream, bool) {
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, "video") {
			return s, true
		}
	}
	return Stream{}, false
}

// Duration is the container duration, or 0 when ffprobe omits it.
func (r Result) Duration() time.Duration {
	return seconds(r.Format.Duration)
}

// FrameRate is avg_frame_rate, falling back to r_frame_rate; 0 when neither
// parses.
func (s Stream) FrameRate() float64 {
	if rate := parseRational(s.AvgFrameRate); rate > 0 {
		return rate
	}
	return parseRational(s.RFrameRate)
}

// FrameCount is nb_frames, or 0 when the container does not report it.
func (s Stream) FrameCount() int {
	n, err := strconv.Atoi(strings.TrimSpace(s.NBFrames))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// StreamDuration is the stream duration, or 0 when unavailable.
func (s Stream) StreamDuration() time.Duration {
	return seconds(s.Duration)
}

// Rotation returns the display rotation in degrees normalized to [0, 360).
// The display matrix side data wins over the legacy rotate tag.
func (s Stream) Rotation() int {
	deg := 0.0
	found := false
	for _, sd := range s.SideData {
		if sd.Rotation != 0 {
			deg, found = sd.Rotation, true
			break
		}
	}
	if !found {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s.Tags.Rotate), 64); err == nil {
			deg = v
		}
	}
	r := int(math.Round(deg)) % 360
	if r < 0 {
		r += 360
	}
	return r
}

// DisplaySize returns width and height as shown, swapping them for quarter
// turns.
func (s Stream) DisplaySize() (int, int) {
	if r := s.Rotation(); r == 90 || r == 270 {
		return s.Height, s.Width
	}
	return s.Width, s.Height
}

// parseRational parses ffprobe rates such as "30000/1001" or "25".
func parseRational(value string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(value), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func seconds(value string) time.Duration {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}
