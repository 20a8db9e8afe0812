// Package transport implements a secure datagram session between one
// client and the server offering a reliable
// stream-per-message channel group and an unreliable datagram channel
// group, built on github.com/quic-go/quic-go. quic-go is grounded as the
// pack's ecosystem QUIC transport (see prysmaticlabs-prysm's indirect
// lucas-clemente/quic-go dependency in the retrieval manifests); the
// session lifecycle staging (dial, handshake, accepted/rejected) follows
// dragonfly's documented login-handshake shape even though the wire bytes
// are entirely different.
package transport

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"time"
)

// ALPN is the application-layer protocol negotiated on every connection.
const ALPN = "mdminecraft"

// IdleTimeout and KeepAlive are the fixed transport guarantees.
const (
	IdleTimeout = 30 * time.Second
	KeepAlive   = 5 * time.Second
)

// CloseGraceful is the error code used for a clean, expected session
// close; its reason string is always valid UTF-8 text.
const CloseGraceful = 0

// selfSignedTLSConfig builds a minimal server TLS config for ALPN, used
// when the caller doesn't supply its own certificate (headless/local
// development runs). Production deployments should pass a real
// *tls.Config as Listen's tlsConf argument.
func selfSignedTLSConfig() (*tls.Config, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("transport: generate key: %w", err)
	}
	now := time.Now()
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{Organization: []string{"mdcore"}},
		NotBefore:    now,
		NotAfter:     now.Add(10 * 365 * 24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("transport: create certificate: %w", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("transport: load keypair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{ALPN},
	}, nil
}

// handshakeTimeout bounds how long the server waits for a client's
// Handshake message on a freshly accepted session before giving up.
const handshakeTimeout = 5 * time.Second

func dialTimeoutCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, handshakeTimeout)
}
