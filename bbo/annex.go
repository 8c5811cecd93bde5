package bbo

// hwTickUS is the fixed conversion constant from one hardware-timestamp
// tick (the NIC's own clock domain, independent of the host's calibrated
// RDTSC clock) to microseconds.
const hwTickUS = 8e-3

// HWAnnex holds the optional four 32-bit hardware cycle counts carried in
// the last 16 bytes of a full-length wire payload, plus the three
// derived microsecond deltas between them. Extraction is cold-path only —
// a consumer requesting detailed analysis, never the receive engine.
type HWAnnex struct {
	T1, T2, T3, T4 uint32
	LatencyAUS     float64 // (T2 - T1) * hwTickUS
	LatencyMidUS   float64 // (T3 - T2) * hwTickUS
	LatencyBUS     float64 // (T4 - T3) * hwTickUS
}

// ExtractAnnex builds an HWAnnex from the four already-decoded hardware
// timestamps and derives the three deltas. Decoding the 16-byte
// big-endian block off the wire is wire.ExtractHWAnnex's job.
func ExtractAnnex(t1, t2, t3, t4 uint32) HWAnnex {
	return HWAnnex{
		T1: t1, T2: t2, T3: t3, T4: t4,
		LatencyAUS:   float64(t2-t1) * hwTickUS,
		LatencyMidUS: float64(t3-t2) * hwTickUS,
		LatencyBUS:   float64(t4-t3) * hwTickUS,
	}
}
