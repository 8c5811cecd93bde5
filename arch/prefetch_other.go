//go:build !amd64

package arch

import "unsafe"

// PrefetchL1 is a no-op outside amd64: the receive engine still calls it
// at the spec'd points, but there is no portable software-prefetch
// instruction to emit.
func PrefetchL1(addr unsafe.Pointer) {}

// PrefetchL2 is a no-op outside amd64. See PrefetchL1.
func PrefetchL2(addr unsafe.Pointer) {}
