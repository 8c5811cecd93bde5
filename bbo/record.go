// Package bbo defines the 64-byte Best Bid/Offer record that is the unit
// of work through the whole ingest path: the wire parser (package wire)
// fills one in place inside a pool slot (package pool), and the ring
// publisher (package shmring) copies it by value into the downstream
// shared-memory record.
package bbo

import (
	"fmt"
	"unsafe"
)

// Status flag bits (Record.Flags).
const (
	// FlagHasHWTimestamps is set when the wire payload carried the
	// optional 16-byte hardware-timestamp annex (len >= 44).
	FlagHasHWTimestamps uint8 = 1 << 0
	// FlagSynthetic marks a record produced by the warm-up protocol's
	// synthetic traffic rather than a real wire parse.
	FlagSynthetic uint8 = 1 << 1
	// FlagStale is reserved for a downstream consumer to mark a record
	// it considers aged out; this producer never sets it.
	FlagStale uint8 = 1 << 2
)

// SymbolLen is the width of the on-wire and in-record symbol field.
const SymbolLen = 8

// Size is the fixed, cache-line-sized size of Record. The init assertion
// below enforces sizeof == 64 the same way the teacher's
// shm.ShmBboMessage does. It does not check alignment: Go gives the type
// only 8-byte alignment, and the 64-byte alignment of each record comes
// from package pool placing it on a 64-byte boundary.
const Size = 64

// Record is exactly 64 bytes (64-byte aligned when it lives in a
// pool.SlotPool), host-order, with no
// endianness conversion on store. Field order is fixed by spec.md §3 and
// must not change without also changing the wire parser and the
// downstream record layout.
type Record struct {
	Symbol      [SymbolLen]byte // ASCII, space-padded, not null-terminated
	BidPrice    float64
	AskPrice    float64
	BidShares   uint32
	AskShares   uint32
	Spread      float64
	TimestampNS uint64
	Sequence    uint32
	Valid       uint8
	Flags       uint8
	_           [10]byte // pad to 64
}

func init() {
	if unsafe.Sizeof(Record{}) != Size {
		panic(fmt.Sprintf("bbo: Record size is %d, expected %d", unsafe.Sizeof(Record{}), Size))
	}
}

// Clear zeroes every byte of the record.
func (r *Record) Clear() {
	*r = Record{}
}

// SetSymbol copies up to SymbolLen bytes from b and space-pads the rest.
func (r *Record) SetSymbol(b []byte) {
	n := len(b)
	if n > SymbolLen {
		n = SymbolLen
	}
	copy(r.Symbol[:], b[:n])
	for i := n; i < SymbolLen; i++ {
		r.Symbol[i] = ' '
	}
}

// GetSymbol returns the symbol with trailing spaces and NULs removed.
// Cold-path only — the hot parser never calls this.
func (r *Record) GetSymbol() string {
	end := SymbolLen
	for end > 0 && (r.Symbol[end-1] == ' ' || r.Symbol[end-1] == 0) {
		end--
	}
	return string(r.Symbol[:end])
}

// IsValidBBO is the cold-path symbol-set predicate: every symbol byte
// must be printable ASCII or space. The hot parser does not call this —
// per spec.md §4.5 it is offered only for callers that want the check.
func IsValidBBO(r *Record) bool {
	for _, b := range r.Symbol {
		if b != ' ' && (b < 0x21 || b > 0x7e) {
			return false
		}
	}
	return true
}
