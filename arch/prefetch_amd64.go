//go:build amd64

package arch

import "unsafe"

//go:noescape
func prefetchT0(addr unsafe.Pointer)

//go:noescape
func prefetchT1(addr unsafe.Pointer)

// PrefetchL1 issues a software prefetch of addr's cache line into L1.
func PrefetchL1(addr unsafe.Pointer) { prefetchT0(addr) }

// PrefetchL2 issues a software prefetch of addr's cache line into L2.
func PrefetchL2(addr unsafe.Pointer) { prefetchT1(addr) }
