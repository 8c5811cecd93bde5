//go:build amd64

package arch

//go:noescape
func mfence()

// MemoryFence is a full CPU barrier. Not used on the hot path; no code in
// this module outside the tests calls it today.
func MemoryFence() { mfence() }
