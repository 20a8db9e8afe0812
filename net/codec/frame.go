package codec

import (
	"encoding/binary"
	"fmt"
)

// lengthFieldSize is the size of the leading length prefix. minFrameLen is
// the smallest legal frame: a 4-byte length plus the 1-byte type_tag it
// covers.
const (
	lengthFieldSize = 4
	minFrameLen     = 5
)

// EncodeFrame lays out a reliable-channel frame: [length][type_tag][body].
// length counts the type_tag byte plus the body, matching DecodeFrame's
// `data.len() < 4 + length` bounds check.
func EncodeFrame(tag MessageType, body []byte) []byte {
	length := 1 + len(body)
	out := make([]byte, lengthFieldSize+length)
	binary.LittleEndian.PutUint32(out[0:4], uint32(length))
	out[4] = byte(tag)
	copy(out[5:], body)
	return out
}

// DecodeFrame splits one frame off the front of data, returning the tag,
// the body, and the number of bytes consumed. It rejects (without ever
// panicking) any input with data.len() < 5, a declared length < 1 (there
// is always at least the type_tag byte), or data.len() < 4 + length.
func DecodeFrame(data []byte) (tag MessageType, body []byte, consumed int, err error) {
	if len(data) < minFrameLen {
		return 0, nil, 0, fmt.Errorf("codec: frame shorter than minimum %d bytes", minFrameLen)
	}
	length := binary.LittleEndian.Uint32(data[0:4])
	if length < 1 {
		return 0, nil, 0, fmt.Errorf("codec: frame declares length %d, want at least 1 for the type_tag byte", length)
	}
	if uint64(len(data)) < uint64(lengthFieldSize)+uint64(length) {
		return 0, nil, 0, fmt.Errorf("codec: frame declares length %d past end of buffer", length)
	}
	tag = MessageType(data[4])
	frameEnd := lengthFieldSize + int(length)
	body = data[lengthFieldSize+1 : frameEnd]
	return tag, body, frameEnd, nil
}

// EncodeDatagram lays out an unreliable-channel datagram:
// [channel_type:u8][payload bytes], with no length prefix since a datagram
// is self-delimiting at the transport layer.
func EncodeDatagram(ch ChannelType, payload []byte) []byte {
	out := make([]byte, 1+len(payload))
	out[0] = byte(ch)
	copy(out[1:], payload)
	return out
}

// DecodeDatagram splits a datagram's channel byte from its payload. It
// returns an error, never panics, on an empty datagram.
func DecodeDatagram(data []byte) (ch ChannelType, payload []byte, err error) {
	if len(data) < 1 {
		return 0, nil, fmt.Errorf("codec: empty datagram")
	}
	return ChannelType(data[0]), data[1:], nil
}
