// Package wire parses the BBO datagram payload directly into a pool
// slot. It is branchless in the sense that matters for this spec: the
// only branches are the length check, written to predict not-taken (the
// truncated-payload arm is cold), and the choice of the hardware-timestamp
// flag.
package wire

import (
	"encoding/binary"

	"github.com/AlephTX/bbo-ingest/arch"
	"github.com/AlephTX/bbo-ingest/bbo"
	"github.com/AlephTX/bbo-ingest/pool"
)

// Wire layout offsets, big-endian 32-bit fields unless noted.
const (
	offSymbol      = 0
	offBidRaw      = 8
	offBidShares   = 12
	offAskRaw      = 16
	offAskShares   = 20
	offSpreadRaw   = 24
	offHWTimestamp = 28

	// MinLen is the minimum payload length without the hardware
	// timestamp annex.
	MinLen = 28
	// FullLen is the payload length including the four 32-bit hardware
	// timestamps.
	FullLen = 44
)

// priceScale is the reciprocal of the wire's x10000 fixed-point scale;
// multiplying by it is used instead of dividing by 10000 as a
// compile-time constant micro-optimization.
const priceScale = 1e-4

// Parse reads a BBO datagram payload, acquires a slot from p, and fills
// it in place. Returns nil if payload is shorter than MinLen — this is
// the only hot-path failure mode, and it is never logged (spec.md §7:
// counters only). Oversized payloads beyond FullLen are accepted; only
// the first FullLen bytes are read. A length in [MinLen, FullLen) is
// accepted without hardware timestamps (the flag stays clear).
func Parse(payload []byte, p *pool.SlotPool, tsNS uint64, sequence uint32) *bbo.Record {
	if arch.Unlikely(len(payload) < MinLen) {
		return nil
	}

	slot := p.Acquire()

	copy(slot.Symbol[:], payload[offSymbol:offSymbol+bbo.SymbolLen])

	bidRaw := binary.BigEndian.Uint32(payload[offBidRaw:])
	bidShares := binary.BigEndian.Uint32(payload[offBidShares:])
	askRaw := binary.BigEndian.Uint32(payload[offAskRaw:])
	askShares := binary.BigEndian.Uint32(payload[offAskShares:])
	spreadRaw := binary.BigEndian.Uint32(payload[offSpreadRaw:])

	slot.BidPrice = float64(bidRaw) * priceScale
	slot.AskPrice = float64(askRaw) * priceScale
	slot.Spread = float64(spreadRaw) * priceScale
	slot.BidShares = bidShares
	slot.AskShares = askShares

	slot.TimestampNS = tsNS
	slot.Sequence = sequence
	slot.Valid = 1

	if arch.Likely(len(payload) >= FullLen) {
		slot.Flags = bbo.FlagHasHWTimestamps
	} else {
		slot.Flags = 0
	}

	return slot
}

// ExtractHWAnnex reads the optional 16-byte hardware-timestamp block from
// a payload that was at least FullLen bytes. Cold-path only, called by a
// consumer that wants detailed latency analysis, never by Parse itself.
func ExtractHWAnnex(payload []byte) (bbo.HWAnnex, bool) {
	if len(payload) < FullLen {
		return bbo.HWAnnex{}, false
	}
	t1 := binary.BigEndian.Uint32(payload[offHWTimestamp:])
	t2 := binary.BigEndian.Uint32(payload[offHWTimestamp+4:])
	t3 := binary.BigEndian.Uint32(payload[offHWTimestamp+8:])
	t4 := binary.BigEndian.Uint32(payload[offHWTimestamp+12:])
	return bbo.ExtractAnnex(t1, t2, t3, t4), true
}

// Encode serializes r back into canonical wire form (MinLen or FullLen
// bytes depending on whether hw is nil), for the round-trip tests in SPEC_FULL.md
// §8. Timestamp and sequence are not part of the wire payload — they are
// injected by the engine, not parsed from it — so they are not encoded
// here.
func Encode(r *bbo.Record, hw *bbo.HWAnnex) []byte {
	n := MinLen
	if hw != nil {
		n = FullLen
	}
	out := make([]byte, n)
	copy(out[offSymbol:], r.Symbol[:])
	binary.BigEndian.PutUint32(out[offBidRaw:], uint32(r.BidPrice/priceScale+0.5))
	binary.BigEndian.PutUint32(out[offBidShares:], r.BidShares)
	binary.BigEndian.PutUint32(out[offAskRaw:], uint32(r.AskPrice/priceScale+0.5))
	binary.BigEndian.PutUint32(out[offAskShares:], r.AskShares)
	binary.BigEndian.PutUint32(out[offSpreadRaw:], uint32(r.Spread/priceScale+0.5))
	if hw != nil {
		binary.BigEndian.PutUint32(out[offHWTimestamp:], hw.T1)
		binary.BigEndian.PutUint32(out[offHWTimestamp+4:], hw.T2)
		binary.BigEndian.PutUint32(out[offHWTimestamp+8:], hw.T3)
		binary.BigEndian.PutUint32(out[offHWTimestamp+12:], hw.T4)
	}
	return out
}
