// Package transport moves datagrams between the network and a PacketHandler.
// It knows nothing about DNS beyond the UDP size limit.
package transport

import (
	"context"
	"net"
)

// MaxUDPMessageSize is the classic DNS-over-UDP payload limit.
const MaxUDPMessageSize = 512

// ServerTransport is a listener that feeds packets to a handler.
type ServerTransport interface {
	// Start binds the socket and begins serving in the background.
	Start(ctx context.Context, handler PacketHandler) error

	// Stop closes the socket and waits for the receive loop to exit.
	Stop() error

	// Address returns the bound address once started, else the configured one.
	Address() string
}

// PacketHandler produces the reply for one request datagram. A nil reply
// means nothing is sent back.
type PacketHandler interface {
	HandlePacket(ctx context.Context, data []byte, clientAddr net.Addr) ([]byte, error)
}

// PacketHandlerFunc adapts a function to PacketHandler.
type PacketHandlerFunc func(ctx context.Context, data []byte, clientAddr net.Addr) ([]byte, error)

func (f PacketHandlerFunc) HandlePacket(ctx context.Context, data []byte, clientAddr net.Addr) ([]byte, error) {
	return f(ctx, data, clientAddr)
}

// TransportType names a transport protocol.
type TransportType string

const (
	// TransportUDP is DNS over UDP (RFC 1035).
	TransportUDP TransportType = "udp"

	// TransportDoH is DNS over HTTPS (RFC 8484).
	TransportDoH TransportType = "doh"

	// TransportDoT is DNS over TLS (RFC 7858).
	TransportDoT TransportType = "dot"

	// TransportDoQ is DNS over QUIC (RFC 9250).
	TransportDoQ TransportType = "doq"
)
