package codec

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// ProtocolVersion is the handshake's version field. Bumped on any wire
// change that isn't covered by SchemaHash alone (e.g. framing changes).
const ProtocolVersion uint32 = 1

// ProtocolMagic disambiguates this protocol's schema hash from any other
// project that happens to enumerate the same message-type names.
const ProtocolMagic = "mdminecraft-schema-v1"

// SchemaHash returns the first 8 bytes of BLAKE3 over
// (protocol_version ∥ protocol_magic ∥ ordered message-type names). A
// client and server with different message sets, a
// different message order, or a different ProtocolVersion get different
// hashes and the handshake is rejected.
func SchemaHash() uint64 {
	h := blake3.New(32, nil)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], ProtocolVersion)
	h.Write(buf[:])
	h.Write([]byte(ProtocolMagic))
	for _, name := range messageTypeNames {
		h.Write([]byte(name))
		h.Write([]byte{0}) // NUL separator so adjacent names can't collide
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}
