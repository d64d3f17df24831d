package domain

import (
	"errors"
	"fmt"

	"github.com/haukened/zoned/internal/dns/common/rrdata"
)

// ErrAliasLoop is returned when the alias hop limit is exhausted and the
// resolver is configured to treat that as a failure.
var ErrAliasLoop = errors.New("alias hop limit exhausted")

// ProtocolErrorKind classifies malformed or out-of-scope input.
type ProtocolErrorKind uint8

const (
	Truncated ProtocolErrorKind = iota + 1
	UnsupportedCompression
	NameTooLong
	InvalidLabel
	NoQuestion
)

func (k ProtocolErrorKind) String() string {
	switch k {
	case Truncated:
		return "truncated"
	case UnsupportedCompression:
		return "unsupported compression"
	case NameTooLong:
		return "name too long"
	case InvalidLabel:
		return "invalid label"
	case NoQuestion:
		return "no question"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ProtocolError reports a request that could not be decoded.
type ProtocolError struct {
	Kind   ProtocolErrorKind
	Offset int
	Err    error
}

// NewProtocolError classifies err, which is normally one of the rrdata
// sentinels, and records where decoding stopped.
func NewProtocolError(offset int, err error) *ProtocolError {
	var kind ProtocolErrorKind
	switch {
	case errors.Is(err, rrdata.ErrUnsupportedCompression):
		kind = UnsupportedCompression
	case errors.Is(err, rrdata.ErrNameTooLong):
		kind = NameTooLong
	case errors.Is(err, rrdata.ErrInvalidLabel), errors.Is(err, rrdata.ErrEmptyLabel):
		kind = InvalidLabel
	default:
		kind = Truncated
	}
	return &ProtocolError{Kind: kind, Offset: offset, Err: err}
}

func (e *ProtocolError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("protocol error at offset %d: %s", e.Offset, e.Kind)
	}
	return fmt.Sprintf("protocol error at offset %d: %s: %v", e.Offset, e.Kind, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// EncodingError reports zone data that could not be turned into wire form.
// Zone data is trusted, so this is an internal consistency fault.
type EncodingError struct {
	Owner string
	Type  RRType
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot encode %s record for %q: %v", e.Type, e.Owner, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
