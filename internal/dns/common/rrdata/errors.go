// Package rrdata converts between presentation values (dotted names, address
// literals) and their RFC 1035 wire encodings. It has no knowledge of message
// framing; callers wrap the sentinel errors below with their own context.
package rrdata

import "errors"

var (
	// ErrTruncated is returned when a read would run past the end of the buffer.
	ErrTruncated = errors.New("truncated input")
	// ErrUnsupportedCompression is returned for a label length octet >= 192,
	// which would start a compression pointer.
	ErrUnsupportedCompression = errors.New("compressed names not supported")
	// ErrNameTooLong is returned when a label exceeds 63 octets or the encoded
	// name exceeds 255 octets.
	ErrNameTooLong = errors.New("name too long")
	// ErrEmptyLabel is returned when a dotted name contains an empty label.
	ErrEmptyLabel = errors.New("empty label")
	// ErrInvalidLabel is returned for reserved label types (length octet 64-191)
	// and for decoded labels that cannot be written in dotted form.
	ErrInvalidLabel = errors.New("invalid label")
	// ErrInvalidAddress is returned for malformed or out of range address literals.
	ErrInvalidAddress = errors.New("invalid address")
)
