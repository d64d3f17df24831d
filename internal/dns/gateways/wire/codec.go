// Package wire provides encoding and decoding of DNS messages for UDP transport.
// It handles the uncompressed RFC 1035 subset served by zoned: one question
// per message and A, AAAA, CNAME and NS records.
package wire

import (
	"fmt"

	"github.com/haukened/zoned/internal/dns/common/log"
	"github.com/haukened/zoned/internal/dns/domain"
)

// DNSCodec converts between datagrams and domain values.
type DNSCodec interface {
	DecodeQuery(data []byte) (domain.Query, error)
	EncodeReply(reply domain.Reply) ([]byte, error)
	EncodeHeaderOnly(id uint16, rcode domain.RCode) []byte
}

// udpCodec implements the DNSCodec interface for standard DNS over UDP messages.
type udpCodec struct {
	logger log.Logger
}

// NewUDPCodec creates and returns a new instance of udpCodec using the provided logger.
func NewUDPCodec(logger log.Logger) *udpCodec {
	return &udpCodec{
		logger: logger,
	}
}

// DecodeQuery parses a DNS query message from data.
func (c *udpCodec) DecodeQuery(data []byte) (domain.Query, error) {
	q, next, err := DecodeQuery(data)
	if err != nil {
		return domain.Query{}, err
	}
	c.logger.Debug(map[string]any{
		"step":     "query_decoded",
		"id":       q.Header.ID,
		"flags":    fmt.Sprintf("0x%04x", q.Header.Flags),
		"qd":       q.Header.QDCount,
		"name":     q.Question.Name,
		"type":     q.Question.Type.String(),
		"class":    q.Question.Class.String(),
		"consumed": next,
		"trailing": len(data) - next,
	}, "Decoded DNS query")
	return q, nil
}

// EncodeReply serializes a Reply into a binary format suitable for sending via UDP.
func (c *udpCodec) EncodeReply(reply domain.Reply) ([]byte, error) {
	out, err := EncodeReply(reply)
	if err != nil {
		return nil, err
	}
	c.logger.Debug(map[string]any{
		"step":  "header_written",
		"id":    reply.ID,
		"rcode": reply.RCode.String(),
		"an":    len(reply.Answers),
		"ar":    len(reply.Additional),
	}, "Wrote DNS response header")
	if reply.RCode == domain.RCodeNoError {
		for _, a := range reply.Answers {
			c.logger.Debug(map[string]any{"step": "answer_written", "record": a.String()}, "Wrote answer record")
		}
		for _, a := range reply.Additional {
			c.logger.Debug(map[string]any{"step": "additional_written", "record": a.String()}, "Wrote additional record")
		}
	}
	c.logger.Debug(map[string]any{
		"step": "final_packet",
		"size": len(out),
		"raw":  fmt.Sprintf("%x", out),
	}, "Final encoded DNS response")
	return out, nil
}

// EncodeHeaderOnly builds a question-less reply carrying only rcode.
func (c *udpCodec) EncodeHeaderOnly(id uint16, rcode domain.RCode) []byte {
	c.logger.Debug(map[string]any{"id": id, "rcode": rcode.String()}, "Wrote header-only DNS response")
	return EncodeHeaderOnly(id, rcode)
}

var _ DNSCodec = &udpCodec{}
