package nic

import "encoding/binary"

// Ethertype and IP protocol numbers the engine's header walk filters on.
const (
	EtherTypeIPv4 = 0x0800
	EtherTypeIPv6 = 0x86DD
	ProtoUDP      = 17
)

const (
	ethHeaderLen = 14
	ipHeaderLen  = 20
	udpHeaderLen = 8
)

// BuildFrame synthesizes an Ethernet+IPv4+UDP frame carrying payload,
// addressed to dstPort, for feeding a LoopbackPoller in tests and warm-up.
// ethertype and ipProto are parameterized so callers can also build the
// malformed frames the engine is expected to filter (wrong ethertype,
// wrong protocol, wrong port).
func BuildFrame(ethertype uint16, ipProto uint8, dstPort uint16, payload []byte) []byte {
	frame := make([]byte, ethHeaderLen+ipHeaderLen+udpHeaderLen+len(payload))

	// Ethernet: dst mac, src mac, ethertype. MAC bytes are arbitrary.
	binary.BigEndian.PutUint16(frame[12:14], ethertype)

	ip := frame[ethHeaderLen:]
	ip[0] = 0x45 // version 4, IHL 5 (20 bytes)
	ip[9] = ipProto
	binary.BigEndian.PutUint16(ip[2:4], uint16(ipHeaderLen+udpHeaderLen+len(payload)))

	udp := frame[ethHeaderLen+ipHeaderLen:]
	binary.BigEndian.PutUint16(udp[0:2], 0) // src port unused
	binary.BigEndian.PutUint16(udp[2:4], dstPort)
	binary.BigEndian.PutUint16(udp[4:6], uint16(udpHeaderLen+len(payload))) // dgram_len

	copy(frame[ethHeaderLen+ipHeaderLen+udpHeaderLen:], payload)
	return frame
}

// BuildMalformedUDPFrame is BuildFrame but lets the caller force a
// dgram_len that doesn't match the actual payload size, for exercising
// the engine's payload-length clamp against a bogus length field.
func BuildMalformedUDPFrame(dstPort uint16, payload []byte, dgramLen uint16) []byte {
	frame := BuildFrame(EtherTypeIPv4, ProtoUDP, dstPort, payload)
	udp := frame[ethHeaderLen+ipHeaderLen:]
	binary.BigEndian.PutUint16(udp[4:6], dgramLen)
	return frame
}
