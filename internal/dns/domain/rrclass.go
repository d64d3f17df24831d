package domain

import "fmt"

// RRClass represents a DNS class. Only IN is ever produced.
type RRClass uint16

// RRClassIN is the Internet class. Replies always carry it regardless of the
// class the client asked for.
const RRClassIN RRClass = 1

// String returns the textual representation of the RRClass.
func (c RRClass) String() string {
	if c == RRClassIN {
		return "IN"
	}
	return fmt.Sprintf("CLASS%d", uint16(c))
}
