package rrdata

import (
	"fmt"
	"net"
	"strings"
)

// EncodeAData encodes a dotted-decimal IPv4 address into its 4-octet form.
// Octets outside 0-255 are rejected rather than wrapped.
func EncodeAData(data string) ([]byte, error) {
	// data = "192.168.0.1"
	if strings.Contains(data, ":") {
		return nil, fmt.Errorf("%w: A record needs an IPv4 literal, got %q", ErrInvalidAddress, data)
	}
	ip := net.ParseIP(data)
	if !isIPv4(ip) {
		return nil, fmt.Errorf("%w: A record IP %q", ErrInvalidAddress, data)
	}
	return ip.To4(), nil
}

// isIPv4 checks whether the provided net.IP address is an IPv4 address.
func isIPv4(ip net.IP) bool {
	return ip != nil && ip.To4() != nil
}
