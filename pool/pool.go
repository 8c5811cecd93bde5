// Package pool provides the pre-allocated circular array of BBO records
// the receive engine acquires slots from. No slot is ever freed — reuse
// is implicit via index wrap-around, and the pool guarantees every slot
// is 64-byte aligned and was zeroed before the hot path ever touches it.
package pool

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/AlephTX/bbo-ingest/arch"
	"github.com/AlephTX/bbo-ingest/bbo"
)

// paddedHead is the single acquire counter, padded to a full 64-byte
// cache line's width. Inside SlotPool it is not placed on a 64-byte
// boundary, so it can straddle two lines shared with SlotPool's other
// fields.
// It is written only by the owning (receive) thread, but kept atomic
// with relaxed ordering so a diagnostic reader can inspect it safely.
type paddedHead struct {
	v   atomic.Uint32
	_   [60]byte // pad struct to 64 bytes (4-byte v + 60)
}

// SlotPool is a contiguous array of bbo.Record slots, N a power of two.
type SlotPool struct {
	slots     []bbo.Record
	backing   []byte // raw backing store, for Close
	release   func([]byte) error
	mask      uint32
	head      paddedHead
	usingHuge bool
}

// New creates a slot pool of n records, n must be a power of two. It
// tries, in priority order, a huge-page anonymous mapping (default huge
// page size), an explicit 2 MiB huge-page mapping, and finally a
// 64-byte-aligned ordinary allocation. A complete failure is fatal: the
// caller should treat a non-nil error here as an initialization failure
// per spec.md §7, not something to retry around.
func New(n int) (*SlotPool, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("pool: size must be a power of two, got %d", n)
	}

	nBytes := n * bbo.Size
	data, huge, release, err := allocateBacking(nBytes)
	if err != nil {
		return nil, fmt.Errorf("pool: all backing allocation strategies failed: %w", err)
	}

	p := &SlotPool{
		backing:   data,
		release:   release,
		mask:      uint32(n - 1),
		usingHuge: huge,
	}
	p.slots = unsafe.Slice((*bbo.Record)(unsafe.Pointer(&data[0])), n)

	// Pre-fault: writing zero into every slot now means no page fault
	// occurs the first time the hot path touches a slot.
	for i := range p.slots {
		p.slots[i].Clear()
	}

	return p, nil
}

// Acquire returns the next slot in round-robin order. Always succeeds;
// the caller owns the returned pointer exclusively until the pool wraps
// back around to the same index.
func (p *SlotPool) Acquire() *bbo.Record {
	idx := (p.head.v.Add(1) - 1) & p.mask
	return &p.slots[idx]
}

// WarmCache touches one 8-byte word from each slot in ascending order,
// pre-faulting pages and priming the cache ahead of the hot loop. A
// compiler barrier after the loop prevents the touches from being
// elided.
func (p *SlotPool) WarmCache() {
	var sink uint64
	for i := range p.slots {
		word := (*uint64)(unsafe.Pointer(&p.slots[i]))
		sink += *word
	}
	arch.CompilerBarrier()
	_ = sink
}

// CurrentHead exposes the acquire counter for diagnostics.
func (p *SlotPool) CurrentHead() uint32 {
	return p.head.v.Load()
}

// IsUsingHugePages reports which backing strategy succeeded.
func (p *SlotPool) IsUsingHugePages() bool {
	return p.usingHuge
}

// Len returns the slot count (always a power of two).
func (p *SlotPool) Len() int {
	return len(p.slots)
}

// Close releases the backing memory.
func (p *SlotPool) Close() error {
	return p.release(p.backing)
}
