// Package shmring is the single-producer interface to the cross-process
// SPSC ring the consumer process reads from. The ring lives in a named
// POSIX shared-memory segment (/dev/shm/bbo_ring_<name>) and holds the
// downstream wire format: the same BBO fields as bbo.Record, but with a
// 16-byte symbol instead of 8, and with the hardware-timestamp annex
// fields always zeroed (this producer never forwards them — see the
// preserved-behavior note in SPEC_FULL.md §4.6 / DESIGN.md).
package shmring

import (
	"fmt"
	"unsafe"
)

// DownstreamSymbolLen is the consumer-side symbol width.
const DownstreamSymbolLen = 16

// RecordSize is the fixed, cache-line-friendly size of Record: two 64-byte
// lines, the first the BBO scalars, the second the hardware-timestamp
// annex that Publish always zeroes (see bbo.HWAnnex, the upstream shape
// this mirrors).
const RecordSize = 128

// Record is the downstream wire record copied by value into the ring at
// publish time. The producer does not retain ownership after TryPublish
// returns. The annex fields (T1-T4, the three latency deltas) exist so a
// consumer's struct layout matches the upstream bbo.HWAnnex shape even
// though Publish never forwards real hardware-timestamp data into them.
type Record struct {
	Symbol      [DownstreamSymbolLen]byte
	BidPrice    float64
	AskPrice    float64
	BidShares   uint32
	AskShares   uint32
	Spread      float64
	TimestampNS uint64
	Sequence    uint32
	Valid       uint8
	Flags       uint8
	_           [2]byte // pad to 64

	T1, T2, T3, T4 uint32
	LatencyAUS     float64
	LatencyMidUS   float64
	LatencyBUS     float64
	_              [24]byte // pad to 128
}

func init() {
	if unsafe.Sizeof(Record{}) != RecordSize {
		panic(fmt.Sprintf("shmring: Record size is %d, expected %d", unsafe.Sizeof(Record{}), RecordSize))
	}
}

// widenSymbol copies an 8-byte upstream symbol into a 16-byte downstream
// field: space-padded, with the final byte forced to NUL regardless of
// what padding preceded it.
func widenSymbol(src [8]byte) [DownstreamSymbolLen]byte {
	var out [DownstreamSymbolLen]byte
	copy(out[:8], src[:])
	for i := 8; i < DownstreamSymbolLen-1; i++ {
		out[i] = ' '
	}
	out[DownstreamSymbolLen-1] = 0
	return out
}
