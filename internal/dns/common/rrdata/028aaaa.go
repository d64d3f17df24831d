package rrdata

import (
	"fmt"
	"net"
)

// EncodeAAAAData encodes a colon-hex IPv6 address into its 16-octet form.
func EncodeAAAAData(data string) ([]byte, error) {
	// data = "2001:db8::ff00:42:8329"
	ip := net.ParseIP(data)
	if !isIPv6(ip) {
		return nil, fmt.Errorf("%w: AAAA record IP %q", ErrInvalidAddress, data)
	}
	return ip.To16(), nil
}

// isIPv6 checks whether the provided net.IP is an IPv6 address that is not
// an IPv4 address in disguise.
func isIPv6(ip net.IP) bool {
	return ip != nil && ip.To16() != nil && ip.To4() == nil
}
