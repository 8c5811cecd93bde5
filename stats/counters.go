// Package stats holds the receive engine's atomic counters and their
// optional Prometheus exposition. Nothing here is on the hot path except
// the Inc methods the engine calls (at most three per packet); everything else —
// snapshotting, the periodic printer, the metrics HTTP listener — runs on
// a separate goroutine per spec.md §5's "optional second thread".
package stats

import "sync/atomic"

const cacheLine = 64

// paddedCounter keeps a single atomic.Uint64 alone on its own cache line
// so the four counters below never false-share with each other or with
// whatever the allocator places next to them.
type paddedCounter struct {
	v atomic.Uint64
	_ [cacheLine - 8]byte
}

// Counters is single-writer (the receive engine), many-reader (the stats
// goroutine, the Prometheus collector), all relaxed ordering — these are
// monotone monitors, not synchronization points.
type Counters struct {
	packetsReceived  paddedCounter
	packetsProcessed paddedCounter
	parseErrors      paddedCounter
	ringBufferFull   paddedCounter
}

// NewCounters returns a zeroed Counters.
func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) IncPacketsReceived()  { c.packetsReceived.v.Add(1) }
func (c *Counters) IncPacketsProcessed() { c.packetsProcessed.v.Add(1) }
func (c *Counters) IncParseErrors()      { c.parseErrors.v.Add(1) }
func (c *Counters) IncRingBufferFull()   { c.ringBufferFull.v.Add(1) }

// Snapshot is a point-in-time read of all four counters.
type Snapshot struct {
	PacketsReceived  uint64
	PacketsProcessed uint64
	ParseErrors      uint64
	RingBufferFull   uint64
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		PacketsReceived:  c.packetsReceived.v.Load(),
		PacketsProcessed: c.packetsProcessed.v.Load(),
		ParseErrors:      c.parseErrors.v.Load(),
		RingBufferFull:   c.ringBufferFull.v.Load(),
	}
}
