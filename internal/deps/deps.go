package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary a pipeline engine executes.
type Requirement struct {
	Name    string
	Command string
	Purpose string
}

// Status is the outcome of looking a Requirement up on PATH.
type Status struct {
	Name      string
	Command   string
	Purpose   string
	Path      string
	Available bool
	Detail    string
}

// FFmpeg describes the encoder binary used for frame extraction and encoding.
func FFmpeg(binary string) Requirement {
	return Requirement{Name: "FFmpeg", Command: binary, Purpose: "frame extraction and encoding"}
}

// FFprobe describes the binary used to inspect clips.
func FFprobe(binary string) Requirement {
	return Requirement{Name: "FFprobe", Command: binary, Purpose: "clip inspection"}
}

// Tools returns the binaries the default pipeline engines execute.
func Tools(ffmpegBinary, ffprobeBinary string) []Requirement {
	return []Requirement{FFmpeg(ffmpegBinary), FFprobe(ffprobeBinary)}
}

// Check resolves every requirement on PATH.
func Check(reqs ...Requirement) []Status {
	results := make([]Status, 0, len(reqs))
	for _, req := range reqs {
		status := Status{Name: req.Name, Command: strings.TrimSpace(req.Command), Purpose: req.Purpose}
		switch path, err := exec.LookPath(status.Command); {
		case status.Command == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found (needed for %s)", status.Command, req.Purpose)
		default:
			status.Path = path
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}

// Summary is the resolved path when available, otherwise the failure detail.
func (s Status) Summary() string {
	if s.Available {
		return s.Path
	}
	return s.Detail
}
