package progress

import "sync"

// DefaultSampleStep is the percent bucket used when Sampled gets step <= 0.
const DefaultSampleStep = 5

// Sampled wraps sink so percent lines are forwarded only when their stage
// changes or the percent enters a new step-sized bucket. 100% is always
// forwarded once per stage. Lines that are not percent lines pass through.
func Sampled(sink Sink, step int) Sink {
	if step <= 0 {
		step = DefaultSampleStep
	}
	s := &sampler{next: sink.OrNop(), step: step, bucket: -1}
	return s.emit
}

type sampler struct {
	next Sink
	step int

	mu     sync.Mutex
	stage  string
	bucket int
}

func (s *sampler) emit(line string) {
	stage, pct, ok := ParsePercent(line)
	if !ok {
		s.next(line)
		return
	}
	s.mu.Lock()
	forward := false
	if stage != s.stage {
		s.stage = stage
		s.bucket = -1
		forward = true
	}
	if bucket := pct / s.step; bucket > s.bucket {
		s.bucket = bucket
		forward = true
	}
	s.mu.Unlock()
	if forward {
		s.next(line)
	}
}
