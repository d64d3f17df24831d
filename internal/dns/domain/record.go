package domain

import (
	"fmt"

	"github.com/haukened/zoned/internal/dns/common/rrdata"
)

// DefaultTTL is the TTL, in seconds, carried by every synthesized record.
const DefaultTTL uint32 = 300

// Record is a zone table entry. The set of variants is closed: A, AAAA, CNAME
// and NS are the only implementations, and each one knows how to produce its
// own RDATA.
type Record interface {
	// Type returns the record's type code.
	Type() RRType
	// Value returns the presentation form of the payload.
	Value() string
	// RData returns the wire encoding of the payload.
	RData() ([]byte, error)

	sealed()
}

// A holds a dotted-decimal IPv4 address.
type A struct{ Address string }

// AAAA holds a colon-hex IPv6 address.
type AAAA struct{ Address string }

// CNAME holds the canonical name an alias points at.
type CNAME struct{ Target string }

// NS holds the host name of a name server.
type NS struct{ Host string }

func (A) Type() RRType     { return RRTypeA }
func (AAAA) Type() RRType  { return RRTypeAAAA }
func (CNAME) Type() RRType { return RRTypeCNAME }
func (NS) Type() RRType    { return RRTypeNS }

func (r A) Value() string     { return r.Address }
func (r AAAA) Value() string  { return r.Address }
func (r CNAME) Value() string { return r.Target }
func (r NS) Value() string    { return r.Host }

func (r A) RData() ([]byte, error)     { return rrdata.EncodeAData(r.Address) }
func (r AAAA) RData() ([]byte, error)  { return rrdata.EncodeAAAAData(r.Address) }
func (r CNAME) RData() ([]byte, error) { return rrdata.EncodeCNAMEData(r.Target) }
func (r NS) RData() ([]byte, error)    { return rrdata.EncodeNSData(r.Host) }

func (A) sealed()     {}
func (AAAA) sealed()  {}
func (CNAME) sealed() {}
func (NS) sealed()    {}

// NewRecord builds the variant for rrtype from its presentation value.
// It does not validate the value; use RData for that.
func NewRecord(rrtype RRType, value string) (Record, error) {
	if value == "" {
		return nil, fmt.Errorf("empty value for %s record", rrtype)
	}
	switch rrtype {
	case RRTypeA:
		return A{Address: value}, nil
	case RRTypeAAAA:
		return AAAA{Address: value}, nil
	case RRTypeCNAME:
		return CNAME{Target: value}, nil
	case RRTypeNS:
		return NS{Host: value}, nil
	default:
		return nil, fmt.Errorf("unsupported record type: %s", rrtype)
	}
}

// Answer is a record paired with the owner name it is served under.
type Answer struct {
	Owner  string
	Record Record
}

// String renders the answer in a zone-file like form for logs.
func (a Answer) String() string {
	return fmt.Sprintf("%s %d IN %s %s", a.Owner, DefaultTTL, a.Record.Type(), a.Record.Value())
}
