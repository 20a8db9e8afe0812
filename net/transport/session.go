package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"

	"github.com/0x4d44/mdcore/coreerr"
	"github.com/0x4d44/mdcore/net/codec"
)

// Session wraps one accepted or dialed quic.Connection with a simple
// channel send/receive discipline: reliable messages open a fresh
// unidirectional stream per send, unreliable messages go out as a single
// datagram. ID is a process-local identifier for logging and replay record
// correlation, distinct from PlayerEntityID (the handshake-assigned
// simulation identity).
type Session struct {
	conn           *quic.Conn
	log            *slog.Logger
	ID             uuid.UUID
	PlayerEntityID uint64
}

// SendReliable opens a unidirectional stream, writes the frame, and closes
// it. ch must be a reliable channel; calling this for an unreliable
// channel is a contract violation and returns an error rather than
// silently sending anyway.
func (s *Session) SendReliable(ctx context.Context, ch codec.ChannelType, tag codec.MessageType, body []byte) error {
	if !ch.Reliable() {
		return coreerr.Wrap(coreerr.Validation, fmt.Errorf("transport: channel %v is not reliable", ch))
	}
	stream, err := s.conn.OpenUniStreamSync(ctx)
	if err != nil {
		return coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: open stream: %w", err))
	}
	frame := codec.EncodeFrame(tag, body)
	out := make([]byte, 0, 1+len(frame))
	out = append(out, byte(ch))
	out = append(out, frame...)
	if _, err := stream.Write(out); err != nil {
		_ = stream.Close()
		return coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: write stream: %w", err))
	}
	if err := stream.Close(); err != nil {
		return coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: close stream: %w", err))
	}
	return nil
}

// SendUnreliable posts a single datagram. ch must be an unreliable
// channel.
func (s *Session) SendUnreliable(ch codec.ChannelType, payload []byte) error {
	if ch.Reliable() {
		return coreerr.Wrap(coreerr.Validation, fmt.Errorf("transport: channel %v is not unreliable", ch))
	}
	if err := s.conn.SendDatagram(codec.EncodeDatagram(ch, payload)); err != nil {
		return coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: send datagram: %w", err))
	}
	return nil
}

// ReceiveDatagram blocks for the next unreliable datagram and decodes its
// channel + payload.
func (s *Session) ReceiveDatagram(ctx context.Context) (codec.ChannelType, []byte, error) {
	data, err := s.conn.ReceiveDatagram(ctx)
	if err != nil {
		return 0, nil, coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: receive datagram: %w", err))
	}
	ch, payload, err := codec.DecodeDatagram(data)
	if err != nil {
		return 0, nil, coreerr.Wrap(coreerr.Validation, err)
	}
	return ch, payload, nil
}

// AcceptReliable blocks for the next incoming unidirectional stream and
// returns its decoded channel, tag and body.
func (s *Session) AcceptReliable(ctx context.Context) (codec.ChannelType, codec.MessageType, []byte, error) {
	stream, err := s.conn.AcceptUniStream(ctx)
	if err != nil {
		return 0, 0, nil, coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: accept stream: %w", err))
	}
	raw, err := io.ReadAll(stream)
	if err != nil {
		return 0, 0, nil, coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: read stream: %w", err))
	}
	if len(raw) < 1 {
		return 0, 0, nil, coreerr.Wrap(coreerr.Validation, fmt.Errorf("transport: empty reliable stream"))
	}
	ch := codec.ChannelType(raw[0])
	tag, body, _, err := codec.DecodeFrame(raw[1:])
	if err != nil {
		return 0, 0, nil, coreerr.Wrap(coreerr.Validation, fmt.Errorf("transport: decode frame: %w", err))
	}
	return ch, tag, body, nil
}

// Close gracefully closes the session with code and a UTF-8 reason.
func (s *Session) Close(code uint64, reason string) error {
	return s.conn.CloseWithError(quic.ApplicationErrorCode(code), reason)
}

// RemoteAddr returns the underlying connection's remote network address,
// used only for logging.
func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr().String()
}
