package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"splice/internal/progress"
)

const progressSampleBucket = 10

// progressDisplay renders a run's progress sink. On a terminal percent lines
// drive a progress bar; otherwise they are sampled into plain lines. All
// other lines (timings, cleanup warnings) are printed as they arrive.
type progressDisplay struct {
	out    io.Writer
	mu     *sync.Mutex
	prefix string
	tty    bool

	sampled  progress.Sink
	bar      *progressbar.ProgressBar
	barStage string
}

func newProgressDisplay(out io.Writer, tty bool) *progressDisplay {
	d := &progressDisplay{out: out, mu: &sync.Mutex{}, tty: tty}
	d.sampled = progress.Sampled(d.println, progressSampleBucket)
	return d
}

// forJob returns a line-mode display sharing d's writer, for concurrent jobs.
func (d *progressDisplay) forJob(job string) *progressDisplay {
	jd := &progressDisplay{out: d.out, mu: d.mu, prefix: "[" + job + "] "}
	jd.sampled = progress.Sampled(jd.println, progressSampleBucket)
	return jd
}

func (d *progressDisplay) Sink() progress.Sink {
	return d.handle
}

func (d *progressDisplay) handle(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.tty {
		d.sampled(line)
		return
	}
	stage, pct, ok := progress.ParsePercent(line)
	if !ok {
		d.clearBar()
		d.println(line)
		return
	}
	d.updateBar(stage, pct)
}

func (d *progressDisplay) println(line string) {
	fmt.Fprintln(d.out, d.prefix+line)
}

func (d *progressDisplay) updateBar(stage string, pct int) {
	if d.bar == nil || d.barStage != stage {
		d.finishBar()
		d.barStage = stage
		d.bar = progressbar.NewOptions(100,
			progressbar.OptionSetWriter(d.out),
			progressbar.OptionSetDescription(fmt.Sprintf("%-10s", stageLabel(stage))),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(d.out) }),
		)
	}
	_ = d.bar.Set(pct)
}

func (d *progressDisplay) clearBar() {
	if d.bar != nil {
		_ = d.bar.Clear()
	}
}

func (d *progressDisplay) finishBar() {
	if d.bar == nil {
		return
	}
	if !d.bar.IsFinished() {
		_ = d.bar.Finish()
	}
	d.bar = nil
	d.barStage = ""
}

// Close finishes any open progress bar.
func (d *progressDisplay) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.finishBar()
}
