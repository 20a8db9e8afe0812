package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quic-go/quic-go"

	"github.com/0x4d44/mdcore/coreerr"
	"github.com/0x4d44/mdcore/net/codec"
)

// quicConfig is the fixed transport configuration: idle-timeout/keepalive
// guarantees plus datagram support for the unreliable channels.
var quicConfig = &quic.Config{
	MaxIdleTimeout:  IdleTimeout,
	KeepAlivePeriod: KeepAlive,
	EnableDatagrams: true,
}

// AcceptDecision is returned by a Server's HandshakeFunc to accept or
// reject an incoming session.
type AcceptDecision struct {
	Accept         bool
	PlayerEntityID uint64
	Reason         string
}

// HandshakeFunc validates a client's Handshake message (version and schema
// hash) and decides whether to admit the session.
type HandshakeFunc func(h codec.Handshake) AcceptDecision

// Server accepts incoming sessions on a QUIC listener.
type Server struct {
	listener  *quic.Listener
	log       *slog.Logger
	handshake HandshakeFunc
}

// Listen opens a Server bound to addr. tlsConf may be nil, in which case a
// self-signed development certificate is generated.
func Listen(addr string, tlsConf *tls.Config, handshake HandshakeFunc, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	if tlsConf == nil {
		var err error
		tlsConf, err = selfSignedTLSConfig()
		if err != nil {
			return nil, err
		}
	}
	ln, err := quic.ListenAddr(addr, tlsConf, quicConfig)
	if err != nil {
		return nil, coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: listen %s: %w", addr, err))
	}
	return &Server{listener: ln, log: log, handshake: handshake}, nil
}

// Addr returns the listener's bound address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Close shuts the listener down, rejecting any further Accept calls.
func (s *Server) Close() error {
	return s.listener.Close()
}

// Accept blocks for the next incoming connection, runs the handshake
// exchange on it, and returns a ready Session. A handshake rejection
// (bad schema hash, handler-declined) closes the underlying connection
// and returns a Transport-classed error rather than a *Session; the
// caller should log and continue accepting, never abort the listen loop.
func (s *Server) Accept(ctx context.Context) (*Session, error) {
	conn, err := s.listener.Accept(ctx)
	if err != nil {
		return nil, coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: accept: %w", err))
	}
	sess := &Session{conn: conn, log: s.log, ID: uuid.New()}

	hctx, cancel := dialTimeoutCtx(ctx)
	defer cancel()
	ch, tag, body, err := sess.AcceptReliable(hctx)
	if err != nil {
		_ = sess.Close(CloseGraceful, "handshake timeout")
		return nil, err
	}
	if ch != codec.ChannelHandshake {
		// Any other channel byte here is a protocol error.
		_ = sess.Close(CloseGraceful, "expected handshake")
		return nil, coreerr.Wrap(coreerr.Validation, fmt.Errorf("transport: unexpected channel %v during handshake", ch))
	}
	msg, err := codec.DecodeClientMessage(tag, body)
	if err != nil {
		_ = sess.Close(CloseGraceful, "malformed handshake")
		return nil, coreerr.Wrap(coreerr.Validation, err)
	}
	hs, ok := msg.(codec.Handshake)
	if !ok {
		_ = sess.Close(CloseGraceful, "expected Handshake message")
		return nil, coreerr.Wrap(coreerr.Validation, fmt.Errorf("transport: first message was %T, not Handshake", msg))
	}

	decision := AcceptDecision{Accept: true, PlayerEntityID: 1}
	if s.handshake != nil {
		decision = s.handshake(hs)
	}
	resp := codec.HandshakeResponse{Accepted: decision.Accept, PlayerEntityID: decision.PlayerEntityID, Reason: decision.Reason}
	respTag, respBody, err := codec.EncodeServerMessage(resp)
	if err != nil {
		_ = sess.Close(CloseGraceful, "internal error")
		return nil, coreerr.Wrap(coreerr.Transport, err)
	}
	if err := sess.SendReliable(ctx, codec.ChannelHandshake, respTag, respBody); err != nil {
		return nil, err
	}
	if !decision.Accept {
		_ = sess.Close(CloseGraceful, decision.Reason)
		return nil, coreerr.Wrap(coreerr.Transport, fmt.Errorf("transport: handshake rejected: %s", decision.Reason))
	}
	sess.PlayerEntityID = decision.PlayerEntityID
	if s.log != nil {
		s.log.Info("session accepted", "session_id", sess.ID, "player_entity_id", sess.PlayerEntityID)
	}
	return sess, nil
}
