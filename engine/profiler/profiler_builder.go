package profiler

import (
	"log"
	"time"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often statistics are logged. Non-positive values keep the 1 second default.
//
// Parameters:
//   - d: the logging interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithDrawCounter sets the source of the per-frame draw and cull counts.
//
// Parameters:
//   - fn: returns the draws submitted and culled by the last frame
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithDrawCounter(fn func() (draws, culled int)) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.drawCounter = fn
	}
}

// WithLogger redirects the statistics output.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogger(l *log.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithStart sets the start of the first interval.
//
// Parameters:
//   - t: the start time
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithStart(t time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.lastTime = t
	}
}
