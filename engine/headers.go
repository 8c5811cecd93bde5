package engine

import "encoding/binary"

const (
	etherTypeIPv4 = 0x0800
	ipProtoUDP    = 17

	ethHeaderLen = 14
	udpHeaderLen = 8
)

// parsedHeaders is the result of walking Ethernet → IPv4 → UDP on a raw
// frame. payloadOff/payloadLen point at the UDP payload inside frame.
type parsedHeaders struct {
	dstPort    uint16
	payloadOff int
	payloadLen int
}

// walkHeaders reads the Ethernet, IPv4, and UDP headers at fixed byte
// offsets via typed unaligned reads — never through a pointer cast that
// assumes alignment. ok is false if the frame isn't IPv4/UDP or is too
// short to contain the headers it claims to have.
func walkHeaders(frame []byte) (parsedHeaders, bool) {
	if len(frame) < ethHeaderLen+20+udpHeaderLen {
		return parsedHeaders{}, false
	}

	ethertype := binary.BigEndian.Uint16(frame[12:14])
	if ethertype != etherTypeIPv4 {
		return parsedHeaders{}, false
	}

	ip := frame[ethHeaderLen:]
	versionIHL := ip[0]
	ihl := int(versionIHL&0x0F) * 4
	if ihl < 20 || len(ip) < ihl+udpHeaderLen {
		return parsedHeaders{}, false
	}
	protocol := ip[9]
	if protocol != ipProtoUDP {
		return parsedHeaders{}, false
	}

	udp := ip[ihl:]
	dstPort := binary.BigEndian.Uint16(udp[2:4])
	dgramLen := int(binary.BigEndian.Uint16(udp[4:6]))

	payloadOff := ethHeaderLen + ihl + udpHeaderLen
	payloadLen := dgramLen - udpHeaderLen
	// The dgram_len field is attacker/peer controlled and spec.md §9
	// leaves malformed-length behavior undefined; clamp to what the
	// frame actually carries so a bogus length degrades into the
	// ordinary truncated-payload path instead of an out-of-bounds read.
	if maxLen := len(frame) - payloadOff; payloadLen > maxLen {
		payloadLen = maxLen
	}
	if payloadLen < 0 {
		payloadLen = 0
	}

	return parsedHeaders{dstPort: dstPort, payloadOff: payloadOff, payloadLen: payloadLen}, true
}
