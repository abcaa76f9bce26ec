package runtime

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks render loop performance. All methods are safe for
// concurrent use.
type Metrics struct {
	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	// Input handling
	inputCount   atomic.Uint64
	inputDropped atomic.Uint64

	// Component lifecycle
	mounts   atomic.Uint64
	unmounts atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	// Initialize min to max int64 so the first frame is smaller.
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records how long one render pass took.
func (m *Metrics) RecordFrame(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordInput records an input event delivered to a frame.
func (m *Metrics) RecordInput() {
	m.inputCount.Add(1)
}

// RecordInputDropped records an input event discarded because the queue
// was full.
func (m *Metrics) RecordInputDropped() {
	m.inputDropped.Add(1)
}

// RecordLifecycle adds the mounts and unmounts of one pass.
func (m *Metrics) RecordLifecycle(mounts, unmounts uint64) {
	m.mounts.Add(mounts)
	m.unmounts.Add(unmounts)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()

	var avgFrameNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
	}

	minFrameNs := m.frameMinNs.Load()
	if minFrameNs == 1<<63-1 {
		minFrameNs = 0
	}

	return MetricsSnapshot{
		Uptime:       time.Since(m.startTime),
		FrameCount:   frameCount,
		AvgFrameTime: time.Duration(avgFrameNs),
		MinFrameTime: time.Duration(minFrameNs),
		MaxFrameTime: time.Duration(m.frameMaxNs.Load()),
		LastFrame:    time.Duration(m.lastFrameNs.Load()),
		InputCount:   m.inputCount.Load(),
		InputDropped: m.inputDropped.Load(),
		Mounts:       m.mounts.Load(),
		Unmounts:     m.unmounts.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.frameCount.Store(0)
	m.frameTotalNs.Store(0)
	m.frameMinNs.Store(1<<63 - 1)
	m.frameMaxNs.Store(0)
	m.lastFrameNs.Store(0)
	m.inputCount.Store(0)
	m.inputDropped.Store(0)
	m.mounts.Store(0)
	m.unmounts.Store(0)
	m.startTime = time.Now()
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime       time.Duration
	FrameCount   uint64
	AvgFrameTime time.Duration
	MinFrameTime time.Duration
	MaxFrameTime time.Duration
	LastFrame    time.Duration
	InputCount   uint64
	InputDropped uint64
	Mounts       uint64
	Unmounts     uint64
}

// RenderCapacity returns how many frames per second the average pass
// duration would allow.
func (s MetricsSnapshot) RenderCapacity() float64 {
	if s.AvgFrameTime == 0 {
		return 0
	}
	return float64(time.Second) / float64(s.AvgFrameTime)
}

// Fields returns the snapshot as zap fields for logging.
func (s MetricsSnapshot) Fields() []zap.Field {
	return []zap.Field{
		zap.Duration("uptime", s.Uptime),
		zap.Uint64("frames", s.FrameCount),
		zap.Duration("avg_frame", s.AvgFrameTime),
		zap.Duration("min_frame", s.MinFrameTime),
		zap.Duration("max_frame", s.MaxFrameTime),
		zap.Uint64("inputs", s.InputCount),
		zap.Uint64("inputs_dropped", s.InputDropped),
		zap.Uint64("mounts", s.Mounts),
		zap.Uint64("unmounts", s.Unmounts),
	}
}
