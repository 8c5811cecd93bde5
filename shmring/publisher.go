package shmring

import (
	"sync/atomic"

	"github.com/AlephTX/bbo-ingest/bbo"
)

// DefaultCapacity is the ring slot count main opens the ring with; no CLI
// flag changes it.
const DefaultCapacity = 16384

// Publisher adapts the engine's bbo.Record (8-byte symbol, hardware
// timestamp annex carried out-of-band in wire.ExtractHWAnnex) onto the
// downstream Record shape the consumer expects.
type Publisher struct {
	ring           *Ring
	ringBufferFull atomic.Uint64
}

// NewPublisher opens (or creates) the named ring and wraps it.
func NewPublisher(name string, capacity int) (*Publisher, error) {
	ring, err := Open(name, capacity)
	if err != nil {
		return nil, err
	}
	return &Publisher{ring: ring}, nil
}

// Publish widens fast's 8-byte symbol into the 16-byte downstream field
// and forwards the BBO fields. Hardware-timestamp data is never forwarded
// downstream — the annex lives only in the upstream wire payload and is
// reachable only through wire.ExtractHWAnnex, so every annex field on the
// downstream Record (T1-T4, the three latency deltas, and Flags) is
// always written as zero here regardless of what the upstream record
// carried.
//
// Returns false (and counts the drop) if the consumer hasn't kept up and
// the ring is full.
func (p *Publisher) Publish(fast *bbo.Record) bool {
	rec := Record{
		Symbol:       widenSymbol(fast.Symbol),
		BidPrice:     fast.BidPrice,
		AskPrice:     fast.AskPrice,
		BidShares:    fast.BidShares,
		AskShares:    fast.AskShares,
		Spread:       fast.Spread,
		TimestampNS:  fast.TimestampNS,
		Sequence:     fast.Sequence,
		Valid:        fast.Valid,
		Flags:        0,
		T1:           0,
		T2:           0,
		T3:           0,
		T4:           0,
		LatencyAUS:   0,
		LatencyMidUS: 0,
		LatencyBUS:   0,
	}
	if p.ring.TryPublish(&rec) {
		return true
	}
	p.ringBufferFull.Add(1)
	return false
}

// RingBufferFull is the running count of dropped publishes.
func (p *Publisher) RingBufferFull() uint64 {
	return p.ringBufferFull.Load()
}

// Len reports records not yet drained by the consumer.
func (p *Publisher) Len() uint64 {
	return p.ring.Len()
}

// Close unmaps the ring's backing segment.
func (p *Publisher) Close() error {
	return p.ring.Close()
}
