package domain

// HeaderSize is the fixed size of a DNS header in bytes.
const HeaderSize = 12

// Header flag bits (RFC 1035 §4.1.1).
const (
	FlagQR uint16 = 1 << 15
	FlagAA uint16 = 1 << 10
	FlagTC uint16 = 1 << 9
	FlagRD uint16 = 1 << 8
	FlagRA uint16 = 1 << 7

	OpcodeMask  uint16 = 0x7800
	OpcodeShift        = 11
	RCodeMask   uint16 = 0x000F
)

// Header represents the fixed 12-byte DNS message header.
type Header struct {
	ID      uint16
	Flags   uint16
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// Has reports whether every bit in flag is set.
func (h Header) Has(flag uint16) bool {
	return h.Flags&flag == flag
}

// Opcode returns the 4-bit opcode field.
func (h Header) Opcode() uint8 {
	//gosec:disable G115 -- masked to 4 bits.
	return uint8((h.Flags & OpcodeMask) >> OpcodeShift)
}

// RCode returns the 4-bit response code field.
func (h Header) RCode() RCode {
	//gosec:disable G115 -- masked to 4 bits.
	return RCode(h.Flags & RCodeMask)
}

// ReplyFlags builds the flags word for a reply: QR, RD and RA are always
// asserted and the rcode occupies the low nibble. Request flags are not echoed.
func ReplyFlags(rcode RCode) uint16 {
	return FlagQR | FlagRD | FlagRA | (uint16(rcode) & RCodeMask)
}
