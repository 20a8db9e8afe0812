package transport

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"

	"github.com/0x4d44/mdcore/coreerr"
	"github.com/0x4d44/mdcore/net/codec"
)

// Dial connects to addr, negotiates ALPN, and runs the client side of the
// handshake: send Handshake{version, schema_hash}, then wait for
// HandshakeResponse. insecureSkipVerify is for local/headless testing
// against a self-signed server certificate only.
func Dial(ctx context.Context, addr string, insecureSkipVerify bool, version uint32) (*Session, error) {
	tlsConf := &tls.Config{
		NextProtos:         []string{ALPN},
		InsecureSkipVerify: insecureSkipVerify,
	}
	conn, err := quic.DialAddr(ctx, addr, tlsConf, quicConfig)
	if err != nil {
		return nil, coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: dial %s: %w", addr, err))
	}
	sess := &Session{conn: conn, ID: uuid.New()}

	hs := codec.Handshake{Version: version, SchemaHash: codec.SchemaHash()}
	tag, body, err := codec.EncodeClientMessage(hs)
	if err != nil {
		_ = sess.Close(CloseGraceful, "internal error")
		return nil, coreerr.Wrap(coreerr.Transport, err)
	}
	hctx, cancel := dialTimeoutCtx(ctx)
	defer cancel()
	if err := sess.SendReliable(hctx, codec.ChannelHandshake, tag, body); err != nil {
		return nil, err
	}

	ch, respTag, respBody, err := sess.AcceptReliable(hctx)
	if err != nil {
		return nil, err
	}
	if ch != codec.ChannelHandshake {
		_ = sess.Close(CloseGraceful, "expected handshake response")
		return nil, coreerr.Wrap(coreerr.Validation, fmt.Errorf("transport: unexpected channel %v in handshake response", ch))
	}
	msg, err := codec.DecodeServerMessage(respTag, respBody)
	if err != nil {
		return nil, coreerr.Wrap(coreerr.Validation, err)
	}
	resp, ok := msg.(codec.HandshakeResponse)
	if !ok {
		return nil, coreerr.Wrap(coreerr.Validation, fmt.Errorf("transport: response was %T, not HandshakeResponse", msg))
	}
	if !resp.Accepted {
		_ = sess.Close(CloseGraceful, resp.Reason)
		return nil, coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: handshake rejected: %s", resp.Reason))
	}
	sess.PlayerEntityID = resp.PlayerEntityID
	return sess, nil
}
