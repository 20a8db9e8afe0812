package transport

import (
	"context"
	"testing"
	"time"

	"github.com/0x4d44/mdcore/net/codec"
)

func TestHandshakeAcceptedRoundTrip(t *testing.T) {
	srv, err := Listen("127.0.0.1:0", nil, func(h codec.Handshake) AcceptDecision {
		if h.SchemaHash != codec.SchemaHash() {
			return AcceptDecision{Accept: false, Reason: "schema mismatch"}
		}
		return AcceptDecision{Accept: true, PlayerEntityID: 7}
	}, nil)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverSessCh := make(chan *Session, 1)
	serverErrCh := make(chan error, 1)
	go func() {
		sess, err := srv.Accept(ctx)
		if err != nil {
			serverErrCh <- err
			return
		}
		serverSessCh <- sess
	}()

	clientSess, err := Dial(ctx, srv.Addr(), true, codec.ProtocolVersion)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if clientSess.PlayerEntityID != 7 {
		t.Fatalf("PlayerEntityID = %d, want 7", clientSess.PlayerEntityID)
	}

	select {
	case err := <-serverErrCh:
		t.Fatalf("server Accept: %v", err)
	case sess := <-serverSessCh:
		if sess.PlayerEntityID != 7 {
			t.Fatalf("server session PlayerEntityID = %d, want 7", sess.PlayerEntityID)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for server session")
	}
}

func TestHandshakeRejectedOnSchemaMismatch(t *testing.T) {
	srv, err := Listen("127.0.0.1:0", nil, func(h codec.Handshake) AcceptDecision {
		return AcceptDecision{Accept: false, Reason: "schema mismatch"}
	}, nil)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() { _, _ = srv.Accept(ctx) }()

	_, err = Dial(ctx, srv.Addr(), true, codec.ProtocolVersion)
	if err == nil {
		t.Fatal("expected Dial to fail on rejected handshake")
	}
}

func TestChannelReliableUnreliableMismatch(t *testing.T) {
	s := &Session{}
	if err := s.SendReliable(context.Background(), codec.ChannelInput, codec.MsgInput, nil); err == nil {
		t.Fatal("expected error sending on unreliable channel via SendReliable")
	}
	if err := s.SendUnreliable(codec.ChannelChat, nil); err == nil {
		t.Fatal("expected error sending on reliable channel via SendUnreliable")
	}
}
