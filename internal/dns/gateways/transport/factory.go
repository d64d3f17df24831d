package transport

import (
	"fmt"
	"slices"

	"github.com/haukened/zoned/internal/dns/common/log"
)

// NewTransport creates a transport of the given type bound to addr.
func NewTransport(transportType TransportType, addr string, logger log.Logger) (ServerTransport, error) {
	switch transportType {
	case TransportUDP:
		return NewUDPTransport(addr, logger), nil
	case TransportDoH, TransportDoT, TransportDoQ:
		return nil, fmt.Errorf("%s transport is not supported", transportType)
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", transportType)
	}
}

// GetSupportedTransports returns the transport types NewTransport can build.
func GetSupportedTransports() []TransportType {
	return []TransportType{TransportUDP}
}

// IsTransportSupported reports whether NewTransport can build transportType.
func IsTransportSupported(transportType TransportType) bool {
	return slices.Contains(GetSupportedTransports(), transportType)
}
