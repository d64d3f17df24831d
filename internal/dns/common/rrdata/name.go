package rrdata

import (
	"fmt"
	"strings"
)

const (
	// MaxLabelLen is the longest label RFC 1035 allows.
	MaxLabelLen = 63
	// MaxNameLen is the longest encoded name, length octets and terminator included.
	MaxNameLen = 255

	compressionMask = 0xC0
)

// EncodeName encodes a dotted domain name into length-prefixed labels ending
// in a zero octet. The empty name encodes as the root. A single trailing dot
// is accepted and ignored.
func EncodeName(name string) ([]byte, error) {
	return AppendName(make([]byte, 0, len(name)+2), name)
}

// AppendName appends the wire encoding of name to dst. On error dst is
// returned unchanged.
func AppendName(dst []byte, name string) ([]byte, error) {
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return append(dst, 0), nil
	}
	// each label costs one length octet plus its bytes; the dots account for
	// all length octets but the first, so the total is len(name)+2
	if len(name)+2 > MaxNameLen {
		return dst, fmt.Errorf("%w: %d octets encoded (max %d)", ErrNameTooLong, len(name)+2, MaxNameLen)
	}
	out := dst
	for _, label := range strings.Split(name, ".") {
		if len(label) == 0 {
			return dst, fmt.Errorf("%w in %q", ErrEmptyLabel, name)
		}
		if len(label) > MaxLabelLen {
			return dst, fmt.Errorf("%w: label %q is %d octets (max %d)", ErrNameTooLong, label, len(label), MaxLabelLen)
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	return append(out, 0), nil
}

// DecodeName reads an uncompressed name from msg starting at off. It returns
// the dotted name and the offset immediately after the terminating zero octet.
func DecodeName(msg []byte, off int) (string, int, error) {
	if off < 0 {
		return "", 0, fmt.Errorf("%w: negative offset %d", ErrTruncated, off)
	}
	var sb strings.Builder
	encoded := 1 // terminator
	for {
		if off >= len(msg) {
			return "", 0, fmt.Errorf("%w: name runs past end of message at offset %d", ErrTruncated, off)
		}
		length := int(msg[off])
		if length == 0 {
			return sb.String(), off + 1, nil
		}
		if length&compressionMask == compressionMask {
			return "", 0, fmt.Errorf("%w: pointer at offset %d", ErrUnsupportedCompression, off)
		}
		if length > MaxLabelLen {
			return "", 0, fmt.Errorf("%w: reserved label type 0x%02x at offset %d", ErrInvalidLabel, length, off)
		}
		encoded += length + 1
		if encoded > MaxNameLen {
			return "", 0, fmt.Errorf("%w: exceeds %d octets at offset %d", ErrNameTooLong, MaxNameLen, off)
		}
		off++
		if off+length > len(msg) {
			return "", 0, fmt.Errorf("%w: label of %d octets at offset %d", ErrTruncated, length, off)
		}
		label := msg[off : off+length]
		for _, b := range label {
			if b == '.' {
				return "", 0, fmt.Errorf("%w: label at offset %d contains a dot", ErrInvalidLabel, off)
			}
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.Write(label)
		off += length
	}
}
