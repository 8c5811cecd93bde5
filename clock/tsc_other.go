//go:build !amd64

package clock

import "time"

// readUnserialized and readSerialized degrade to wall-clock nanoseconds
// outside amd64, where this package has no cycle-counter instruction to
// call. Calibrate still sleeps and measures (and succeeds, with
// cyclesPerNs and nsPerCycle both close to 1), but timestamps on this path do not
// exercise the unserialized-vs-serialized distinction the hot path
// depends on; this is a degraded mode, not a substitute for RDTSC.
func readUnserialized() uint64 {
	return uint64(time.Now().UnixNano())
}

func readSerialized() uint64 {
	return uint64(time.Now().UnixNano())
}
