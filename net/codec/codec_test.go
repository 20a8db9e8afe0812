package codec

import (
	"bytes"
	"math/rand/v2"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	tag, body, err := EncodeServerMessage(ServerState{Tick: 42, Weather: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	frame := EncodeFrame(tag, body)

	gotTag, gotBody, consumed, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if consumed != len(frame) {
		t.Fatalf("consumed = %d, want %d", consumed, len(frame))
	}
	if gotTag != MsgServerState {
		t.Fatalf("tag = %v, want MsgServerState", gotTag)
	}
	msg, err := DecodeServerMessage(gotTag, gotBody)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}
	ss, ok := msg.(ServerState)
	if !ok || ss.Tick != 42 || ss.Weather != 1 {
		t.Fatalf("got %#v", msg)
	}
}

func TestClientMessageRoundTrip(t *testing.T) {
	roundTrip := func(want ClientMessage) ClientMessage {
		tag, body, err := EncodeClientMessage(want)
		if err != nil {
			t.Fatalf("encode %#v: %v", want, err)
		}
		got, err := DecodeClientMessage(tag, body)
		if err != nil {
			t.Fatalf("decode %#v: %v", want, err)
		}
		return got
	}

	if want := (Handshake{Version: 3, SchemaHash: 0xDEADBEEF}); roundTrip(want) != want {
		t.Fatalf("Handshake round trip mismatch: want %#v got %#v", want, roundTrip(want))
	}
	if want := (Chat{From: 1, Text: "hello"}); roundTrip(want) != want {
		t.Fatalf("Chat round trip mismatch: want %#v got %#v", want, roundTrip(want))
	}

	want := Input{ClientID: 7, Sequence: 9, Payload: []byte{1, 2, 3}}
	got, ok := roundTrip(want).(Input)
	if !ok || got.ClientID != want.ClientID || got.Sequence != want.Sequence || !bytes.Equal(got.Payload, want.Payload) {
		t.Fatalf("Input round trip mismatch: want %#v got %#v", want, got)
	}
}

func TestServerMessageRoundTrip(t *testing.T) {
	want := HandshakeResponse{Accepted: false, Reason: "schema mismatch"}
	tag, body, err := EncodeServerMessage(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeServerMessage(tag, body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeFrameRejectsShortInput(t *testing.T) {
	for _, n := range []int{0, 1, 4} {
		if _, _, _, err := DecodeFrame(make([]byte, n)); err == nil {
			t.Fatalf("DecodeFrame(%d zero bytes) did not error", n)
		}
	}
}

func TestDecodeFrameRejectsZeroLength(t *testing.T) {
	data := make([]byte, 5)
	data[4] = 0x42 // length is 0, the byte at index 4 is unreachable body
	if _, _, _, err := DecodeFrame(data); err == nil {
		t.Fatal("expected error for a frame declaring length 0, not a panic")
	}
}

func TestDecodeFrameRejectsOversizedLength(t *testing.T) {
	data := make([]byte, 5)
	data[0] = 0xFF
	data[1] = 0xFF
	data[2] = 0xFF
	data[3] = 0x7F
	if _, _, _, err := DecodeFrame(data); err == nil {
		t.Fatal("expected error for length pointing past buffer end")
	}
}

// TestDecodeNeverPanics covers the codec robustness property: arbitrary
// byte slices up to 2000 bytes must never panic the decoder.
func TestDecodeNeverPanics(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		n := rng.IntN(2000) + 1
		buf := make([]byte, n)
		for j := range buf {
			buf[j] = byte(rng.IntN(256))
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("decode panicked on input %d (len %d): %v", i, n, r)
				}
			}()
			tag, body, _, err := DecodeFrame(buf)
			if err != nil {
				return
			}
			_, _ = DecodeClientMessage(tag, body)
			_, _ = DecodeServerMessage(tag, body)
		}()
	}
}

func TestSchemaHashStable(t *testing.T) {
	a := SchemaHash()
	b := SchemaHash()
	if a != b {
		t.Fatalf("SchemaHash not stable: %x != %x", a, b)
	}
}

func TestChannelReliability(t *testing.T) {
	reliable := map[ChannelType]bool{
		ChannelInput:       false,
		ChannelChunkStream: true,
		ChannelEntityDelta: false,
		ChannelChat:        true,
		ChannelDiagnostics: true,
	}
	for ch, want := range reliable {
		if got := ch.Reliable(); got != want {
			t.Errorf("%v.Reliable() = %v, want %v", ch, got, want)
		}
	}
}
