package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/haukened/zoned/internal/dns/common/rrdata"
	"github.com/haukened/zoned/internal/dns/domain"
)

// EncodeReply serializes a reply as header, question, answers, additionals.
// Answer and additional records are only written when the rcode is NOERROR,
// so the header counts always match the sections that follow.
func EncodeReply(reply domain.Reply) ([]byte, error) {
	if !reply.RCode.IsValid() {
		return nil, fmt.Errorf("invalid rcode: %d", reply.RCode)
	}

	answers, additional := reply.Answers, reply.Additional
	if reply.RCode != domain.RCodeNoError {
		answers, additional = nil, nil
	}
	if len(answers) > math.MaxUint16 {
		return nil, fmt.Errorf("too many answer records: %d (max %d)", len(answers), math.MaxUint16)
	}
	if len(additional) > math.MaxUint16 {
		return nil, fmt.Errorf("too many additional records: %d (max %d)", len(additional), math.MaxUint16)
	}

	buf := make([]byte, 0, 512)
	buf = appendHeader(buf, domain.Header{
		ID:      reply.ID,
		Flags:   domain.ReplyFlags(reply.RCode),
		QDCount: 1,
		ANCount: uint16(len(answers)),
		NSCount: 0,
		ARCount: uint16(len(additional)),
	})

	buf, err := appendQuestion(buf, reply.Question)
	if err != nil {
		return nil, err
	}

	for _, a := range answers {
		if buf, err = appendRecord(buf, a); err != nil {
			return nil, err
		}
	}
	for _, a := range additional {
		if buf, err = appendRecord(buf, a); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// EncodeHeaderOnly builds a reply that carries no question, used when the
// request could not be decoded far enough to echo one.
func EncodeHeaderOnly(id uint16, rcode domain.RCode) []byte {
	return appendHeader(make([]byte, 0, domain.HeaderSize), domain.Header{
		ID:    id,
		Flags: domain.ReplyFlags(rcode),
	})
}

func appendHeader(buf []byte, h domain.Header) []byte {
	buf = binary.BigEndian.AppendUint16(buf, h.ID)
	buf = binary.BigEndian.AppendUint16(buf, h.Flags)
	buf = binary.BigEndian.AppendUint16(buf, h.QDCount)
	buf = binary.BigEndian.AppendUint16(buf, h.ANCount)
	buf = binary.BigEndian.AppendUint16(buf, h.NSCount)
	buf = binary.BigEndian.AppendUint16(buf, h.ARCount)
	return buf
}

// appendQuestion re-encodes the question; class is always written as IN.
func appendQuestion(buf []byte, q domain.Question) ([]byte, error) {
	offset := len(buf)
	buf, err := rrdata.AppendName(buf, q.Name)
	if err != nil {
		return nil, domain.NewProtocolError(offset, err)
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(q.Type))
	buf = binary.BigEndian.AppendUint16(buf, uint16(domain.RRClassIN))
	return buf, nil
}

// appendRecord writes NAME TYPE CLASS TTL RDLENGTH RDATA for one answer.
func appendRecord(buf []byte, a domain.Answer) ([]byte, error) {
	if a.Record == nil {
		return nil, &domain.EncodingError{Owner: a.Owner, Err: fmt.Errorf("nil record")}
	}
	rtype := a.Record.Type()
	rdata, err := a.Record.RData()
	if err != nil {
		return nil, &domain.EncodingError{Owner: a.Owner, Type: rtype, Err: err}
	}
	if len(rdata) > math.MaxUint16 {
		return nil, &domain.EncodingError{Owner: a.Owner, Type: rtype,
			Err: fmt.Errorf("resource record data too large: %d bytes (max %d)", len(rdata), math.MaxUint16)}
	}
	buf, err = rrdata.AppendName(buf, a.Owner)
	if err != nil {
		return nil, &domain.EncodingError{Owner: a.Owner, Type: rtype, Err: err}
	}
	buf = binary.BigEndian.AppendUint16(buf, uint16(rtype))
	buf = binary.BigEndian.AppendUint16(buf, uint16(domain.RRClassIN))
	buf = binary.BigEndian.AppendUint32(buf, domain.DefaultTTL)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(rdata)))
	return append(buf, rdata...), nil
}
