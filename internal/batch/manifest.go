package batch

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"splice/internal/concat"
	"splice/internal/services"
)

// Manifest is a parsed batch file.
type Manifest struct {
	// Parallel bounds how many jobs run at once. Zero leaves it to the caller.
	Parallel int      `toml:"parallel"`
	Defaults Defaults `toml:"defaults"`
	Jobs     []Job    `toml:"job"`

	dir string
}

// Defaults apply to every job that does not set the field itself.
type Defaults struct {
	Transition           string `toml:"transition"`
	TransitionDurationMS *int   `toml:"transition_duration_ms"`
	FrameFormat          string `toml:"frame_format"`
	Concurrency          int    `toml:"concurrency"`
	WorkingDir           string `toml:"working_dir"`
	KeepFrames           *bool  `toml:"keep_frames"`
}

// Job is one concat run.
type Job struct {
	Name        string   `toml:"name"`
	Output      string   `toml:"output"`
	Clips       []string `toml:"clips"`
	Audio       string   `toml:"audio"`
	Transition  string   `toml:"transition"`
	Transitions []string `toml:"transitions"`
	FrameFormat string   `toml:"frame_format"`
	Concurrency int      `toml:"concurrency"`
	KeepFrames  *bool    `toml:"keep_frames"`
}

// LoadManifest reads and checks a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "batch", "read manifest", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}
	return ParseManifest(data, filepath.Dir(abs))
}

// ParseManifest decodes manifest data. dir anchors relative paths.
func ParseManifest(data []byte, dir string) (*Manifest, error) {
	var m Manifest
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&m); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, services.Wrap(services.ErrConfiguration, "batch", "parse manifest", strictErr.String(), nil)
		}
		return nil, services.Wrap(services.ErrConfiguration, "batch", "parse manifest", "", err)
	}
	m.dir = dir
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Jobs) == 0 {
		return services.Wrap(services.ErrConfiguration, "batch", "validate manifest", "manifest has no [[job]] entries", nil)
	}
	if m.Parallel < 0 {
		return services.Wrap(services.ErrConfiguration, "batch", "validate manifest", "parallel must be positive", nil)
	}
	seen := make(map[string]bool, len(m.Jobs))
	outputs := make(map[string]string, len(m.Jobs))
	for i := range m.Jobs {
		job := &m.Jobs[i]
		job.Name = strings.TrimSpace(job.Name)
		if job.Name == "" {
			job.Name = fmt.Sprintf("job-%d", i+1)
		}
		if seen[job.Name] {
			return services.Wrap(services.ErrConfiguration, "batch", "validate manifest",
				fmt.Sprintf("duplicate job name %q", job.Name), nil)
		}
		seen[job.Name] = true
		if strings.TrimSpace(job.Output) == "" {
			return services.Wrap(services.ErrConfiguration, "batch", "validate manifest",
				fmt.Sprintf("job %q has no output", job.Name), nil)
		}
		if len(job.Clips) == 0 {
			return services.Wrap(services.ErrConfiguration, "batch", "validate manifest",
				fmt.Sprintf("job %q has no clips", job.Name), nil)
		}
		out := m.resolve(job.Output)
		if other, ok := outputs[out]; ok {
			return services.Wrap(services.ErrConfiguration, "batch", "validate manifest",
				fmt.Sprintf("jobs %q and %q write the same output %s", other, job.Name, out), nil)
		}
		outputs[out] = job.Name
	}
	return nil
}

func (m *Manifest) resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) || m.dir == "" {
		return path
	}
	return filepath.Join(m.dir, path)
}

// Options turns job into run options layered over base, which usually
// comes from concat.OptionsFromConfig. Manifest defaults override base and
// job fields override defaults.
func (m *Manifest) Options(job Job, base concat.Options) (concat.Options, error) {
	opts := base
	opts.Videos = make([]string, len(job.Clips))
	for i, clip := range job.Clips {
		opts.Videos[i] = m.resolve(clip)
	}
	opts.Output = m.resolve(job.Output)
	opts.Audio = m.resolve(job.Audio)

	d := m.Defaults
	duration := time.Duration(0)
	if base.Transition != nil {
		duration = base.Transition.Duration
	}
	if d.TransitionDurationMS != nil {
		duration = time.Duration(*d.TransitionDurationMS) * time.Millisecond
	}
	if opts.Transition != nil {
		t := *opts.Transition
		t.Duration = duration
		opts.Transition = &t
	}

	transition := firstNonEmpty(job.Transition, d.Transition)
	if transition != "" {
		t, err := concat.ParseTransition(transition, duration)
		if err != nil {
			return opts, fmt.Errorf("job %q: %w", job.Name, err)
		}
		opts.Transition = &t
	}
	opts.Transitions = nil
	for _, raw := range job.Transitions {
		t, err := concat.ParseTransition(raw, duration)
		if err != nil {
			return opts, fmt.Errorf("job %q: %w", job.Name, err)
		}
		opts.Transitions = append(opts.Transitions, t)
	}

	if format := firstNonEmpty(job.FrameFormat, d.FrameFormat); format != "" {
		opts.FrameFormat = format
	}
	if job.Concurrency != 0 {
		opts.Concurrency = job.Concurrency
	} else if d.Concurrency != 0 {
		opts.Concurrency = d.Concurrency
	}
	if d.WorkingDir != "" {
		opts.WorkingDir = m.resolve(d.WorkingDir)
	}
	if job.KeepFrames != nil {
		opts.KeepFrames = *job.KeepFrames
	} else if d.KeepFrames != nil {
		opts.KeepFrames = *d.KeepFrames
	}
	return opts, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
