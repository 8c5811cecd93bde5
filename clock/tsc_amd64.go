//go:build amd64

package clock

import "golang.org/x/sys/cpu"

//go:noescape
func rdtsc() uint64

//go:noescape
func rdtscp() uint64

//go:noescape
func cpuidSerialize()

// readUnserialized returns TSC without draining the pipeline first —
// the hot-path reception timestamp.
func readUnserialized() uint64 {
	return rdtsc()
}

// readSerialized returns a cycle count that is guaranteed not to be
// reordered around surrounding instructions by the out-of-order core.
// RDTSCP is itself partially serializing (it waits for prior
// instructions to retire); when the CPU doesn't expose it we fall back
// to CPUID (fully serializing) immediately before RDTSC.
func readSerialized() uint64 {
	if cpu.X86.HasRDTSCP {
		return rdtscp()
	}
	cpuidSerialize()
	return rdtsc()
}
