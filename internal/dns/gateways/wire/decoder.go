package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/haukened/zoned/internal/dns/common/rrdata"
	"github.com/haukened/zoned/internal/dns/domain"
)

// DecodeQuery parses the header and the first question of a query message.
// It returns the decoded query and the offset following the question. Only
// the first question is read even when QDCOUNT is larger. Every failure is a
// *domain.ProtocolError.
func DecodeQuery(data []byte) (domain.Query, int, error) {
	hdr, err := decodeHeader(data)
	if err != nil {
		return domain.Query{}, 0, err
	}
	if hdr.QDCount == 0 {
		return domain.Query{}, 0, &domain.ProtocolError{Kind: domain.NoQuestion, Offset: 4}
	}
	q, next, err := decodeQuestion(data, domain.HeaderSize)
	if err != nil {
		return domain.Query{}, 0, err
	}
	return domain.Query{Header: hdr, Question: q}, next, nil
}

// decodeHeader reads the fixed 12-byte header.
func decodeHeader(data []byte) (domain.Header, error) {
	if len(data) < domain.HeaderSize {
		return domain.Header{}, domain.NewProtocolError(len(data),
			fmt.Errorf("%w: header needs %d bytes, got %d", rrdata.ErrTruncated, domain.HeaderSize, len(data)))
	}
	return domain.Header{
		ID:      binary.BigEndian.Uint16(data[0:2]),
		Flags:   binary.BigEndian.Uint16(data[2:4]),
		QDCount: binary.BigEndian.Uint16(data[4:6]),
		ANCount: binary.BigEndian.Uint16(data[6:8]),
		NSCount: binary.BigEndian.Uint16(data[8:10]),
		ARCount: binary.BigEndian.Uint16(data[10:12]),
	}, nil
}

// decodeQuestion parses the question section starting at the given offset.
// It returns the question and the updated offset.
func decodeQuestion(data []byte, offset int) (domain.Question, int, error) {
	name, next, err := rrdata.DecodeName(data, offset)
	if err != nil {
		return domain.Question{}, 0, domain.NewProtocolError(offset, err)
	}
	if next+4 > len(data) {
		return domain.Question{}, 0, domain.NewProtocolError(next,
			fmt.Errorf("%w: question fields", rrdata.ErrTruncated))
	}
	return domain.Question{
		Name:  name,
		Type:  domain.RRType(binary.BigEndian.Uint16(data[next : next+2])),
		Class: domain.RRClass(binary.BigEndian.Uint16(data[next+2 : next+4])),
	}, next + 4, nil
}
