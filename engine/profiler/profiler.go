// Package profiler logs frame rate, draw counts and memory statistics at a fixed interval.
package profiler

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"
)

// Sample is one interval's worth of statistics.
type Sample struct {
	FPS         float64
	HeapMB      float64
	SysMB       float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	Draws       int
	Culled      int
}

// String formats the sample as a single log line body.
func (s Sample) String() string {
	return fmt.Sprintf("FPS: %.2f | Draws: %d (culled %d) | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		s.FPS, s.Draws, s.Culled, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	mu *sync.Mutex

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	drawCounter func() (draws, culled int)
	logger      *log.Logger
	last        Sample
}

// NewProfiler creates a new Profiler. The interval defaults to 1 second and
// output goes to the standard logger.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		lastTime:       time.Now(),
		updateInterval: time.Second,
		logger:         log.Default(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	return p.TickAt(time.Now())
}

// TickAt is Tick with an explicit frame time.
//
// Parameters:
//   - now: the time the frame finished
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) TickAt(now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Sample{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
	}
	s.LastPauseUs, s.MaxPauseUs = p.pauses()
	if p.drawCounter != nil {
		s.Draws, s.Culled = p.drawCounter()
	}

	p.logger.Printf("[Profiler] %s", s)

	p.last = s
	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recently logged sample.
//
// Returns:
//   - Sample: the sample, zero before the first interval elapses
func (p *Profiler) Last() Sample {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// pauses returns the last GC pause and the longest pause since the previous sample, in µs.
// PauseNs is a circular buffer of the last 256 pauses. Caller must hold the mutex.
func (p *Profiler) pauses() (last, longest uint64) {
	gcCount := p.memStats.NumGC
	if gcCount == 0 {
		return 0, 0
	}
	last = p.memStats.PauseNs[(gcCount-1)%256] / 1000

	start := p.lastGCCount
	if gcCount-start > 256 {
		start = gcCount - 256
	}
	for i := start; i < gcCount; i++ {
		longest = max(longest, p.memStats.PauseNs[i%256]/1000)
	}
	return last, longest
}
