package pool

import "unsafe"

// alignedOf64 is the alignment every bbo.Record must sit on (invariant 2,
// SPEC_FULL.md §3).
const alignedOf64 = 64

// alignedAlloc returns a slice of at least n bytes whose first byte sits
// on a 64-byte boundary, by over-allocating and slicing into the aligned
// region. This is the ordinary-allocation fallback used when neither
// huge-page mapping strategy is available.
func alignedAlloc(n int) ([]byte, error) {
	buf := make([]byte, n+alignedOf64-1)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	offset := (alignedOf64 - addr%alignedOf64) % alignedOf64
	return buf[offset : offset+uintptr(n)], nil
}
