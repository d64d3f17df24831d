package domain

import "fmt"

// RRType represents a DNS resource record type (e.g. A, AAAA, NS).
// See IANA DNS Parameters for assigned codes.
type RRType uint16

// DNS Resource Record Type constants served by the zone table.
const (
	RRTypeA     RRType = 1   // A - IPv4 address
	RRTypeNS    RRType = 2   // NS - Name server
	RRTypeCNAME RRType = 5   // CNAME - Canonical name
	RRTypeAAAA  RRType = 28  // AAAA - IPv6 address
	RRTypeANY   RRType = 255 // ANY - Any type (query only)
)

// IsRecordType reports whether the type can be stored in the zone table.
// ANY is a query-only type and is therefore excluded.
func (t RRType) IsRecordType() bool {
	switch t {
	case RRTypeA, RRTypeNS, RRTypeCNAME, RRTypeAAAA:
		return true
	default:
		return false
	}
}

// String returns the textual representation of the RRType.
// For unknown types, it returns "UNKNOWN(<value>)".
func (t RRType) String() string {
	switch t {
	case RRTypeA:
		return "A"
	case RRTypeNS:
		return "NS"
	case RRTypeCNAME:
		return "CNAME"
	case RRTypeAAAA:
		return "AAAA"
	case RRTypeANY:
		return "ANY"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
	}
}

// RRTypeFromString converts a record type string to its corresponding RRType value.
// Unknown names yield 0.
func RRTypeFromString(s string) RRType {
	switch s {
	case "A":
		return RRTypeA
	case "NS":
		return RRTypeNS
	case "CNAME":
		return RRTypeCNAME
	case "AAAA":
		return RRTypeAAAA
	case "ANY":
		return RRTypeANY
	default:
		return 0
	}
}
