package wire

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/dns/dnsmessage"

	"github.com/haukened/zoned/internal/dns/common/rrdata"
	"github.com/haukened/zoned/internal/dns/domain"
)

func answer(owner string, rec domain.Record) domain.Answer {
	return domain.Answer{Owner: owner, Record: rec}
}

// parseReply runs the reply through an independent parser and fails the
// test if the framing is inconsistent.
func parseReply(t *testing.T, msg []byte) (dnsmessage.Header, dnsmessage.Question, []dnsmessage.Resource, []dnsmessage.Resource) {
	t.Helper()
	var p dnsmessage.Parser
	h, err := p.Start(msg)
	require.NoError(t, err)
	qs, err := p.AllQuestions()
	require.NoError(t, err)
	require.Len(t, qs, 1)
	ans, err := p.AllAnswers()
	require.NoError(t, err)
	require.NoError(t, p.SkipAllAuthorities())
	extra, err := p.AllAdditionals()
	require.NoError(t, err)
	return h, qs[0], ans, extra
}

func TestEncodeReply_DirectMatch(t *testing.T) {
	msg, err := EncodeReply(domain.Reply{
		ID:       0x1234,
		RCode:    domain.RCodeNoError,
		Question: domain.Question{Name: "test.com", Type: domain.RRTypeA, Class: domain.RRClass(3)},
		Answers:  []domain.Answer{answer("test.com", domain.A{Address: "5.6.7.8"})},
	})
	require.NoError(t, err)

	assert.Equal(t, uint16(0x1234), binary.BigEndian.Uint16(msg[0:2]))
	assert.Equal(t, uint16(0x8180), binary.BigEndian.Uint16(msg[2:4]))
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(msg[4:6]))
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(msg[6:8]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(msg[8:10]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(msg[10:12]))

	h, q, ans, extra := parseReply(t, msg)
	assert.True(t, h.Response)
	assert.True(t, h.RecursionDesired)
	assert.True(t, h.RecursionAvailable)
	assert.False(t, h.Authoritative)
	assert.Equal(t, dnsmessage.RCodeSuccess, h.RCode)
	assert.Equal(t, "test.com.", q.Name.String())
	assert.Equal(t, dnsmessage.ClassINET, q.Class, "class is always rewritten to IN")
	require.Len(t, ans, 1)
	assert.Empty(t, extra)
	assert.Equal(t, uint32(300), ans[0].Header.TTL)
	assert.Equal(t, uint16(4), ans[0].Header.Length)
	a, ok := ans[0].Body.(*dnsmessage.AResource)
	require.True(t, ok)
	assert.Equal(t, [4]byte{5, 6, 7, 8}, a.A)
}

func TestEncodeReply_AllRecordTypes(t *testing.T) {
	msg, err := EncodeReply(domain.Reply{
		ID:       1,
		Question: domain.Question{Name: "alias2.com", Type: domain.RRTypeANY},
		Answers: []domain.Answer{
			answer("alias2.com", domain.CNAME{Target: "alias.com"}),
			answer("alias.com", domain.CNAME{Target: "example.com"}),
			answer("example.com", domain.AAAA{Address: "2001:db8::1"}),
			answer("example.org", domain.NS{Host: "ns1.example.org"}),
		},
		Additional: []domain.Answer{answer("ns1.example.org", domain.A{Address: "9.9.9.9"})},
	})
	require.NoError(t, err)
	assert.Equal(t, uint16(4), binary.BigEndian.Uint16(msg[6:8]))
	assert.Equal(t, uint16(1), binary.BigEndian.Uint16(msg[10:12]))

	_, _, ans, extra := parseReply(t, msg)
	require.Len(t, ans, 4)
	assert.Equal(t, "alias2.com.", ans[0].Header.Name.String())
	assert.Equal(t, "alias.com.", ans[0].Body.(*dnsmessage.CNAMEResource).CNAME.String())
	assert.Equal(t, "example.com.", ans[1].Body.(*dnsmessage.CNAMEResource).CNAME.String())
	aaaa := ans[2].Body.(*dnsmessage.AAAAResource)
	assert.Equal(t, byte(0x20), aaaa.AAAA[0])
	assert.Equal(t, byte(0x01), aaaa.AAAA[15])
	assert.Equal(t, uint16(16), ans[2].Header.Length)
	assert.Equal(t, "ns1.example.org.", ans[3].Body.(*dnsmessage.NSResource).NS.String())

	require.Len(t, extra, 1)
	assert.Equal(t, "ns1.example.org.", extra[0].Header.Name.String())
	assert.Equal(t, [4]byte{9, 9, 9, 9}, extra[0].Body.(*dnsmessage.AResource).A)
}

func TestEncodeReply_NXDomainDropsSections(t *testing.T) {
	msg, err := EncodeReply(domain.Reply{
		ID:         2,
		RCode:      domain.RCodeNXDomain,
		Question:   domain.Question{Name: "missing.com", Type: domain.RRTypeA},
		Answers:    []domain.Answer{answer("missing.com", domain.A{Address: "1.1.1.1"})},
		Additional: []domain.Answer{answer("missing.com", domain.A{Address: "1.1.1.1"})},
	})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8183), binary.BigEndian.Uint16(msg[2:4]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(msg[6:8]))
	assert.Equal(t, uint16(0), binary.BigEndian.Uint16(msg[10:12]))
	// header + question only
	assert.Len(t, msg, 12+13+4)

	h, _, ans, extra := parseReply(t, msg)
	assert.Equal(t, dnsmessage.RCodeNameError, h.RCode)
	assert.Empty(t, ans)
	assert.Empty(t, extra)
}

func TestEncodeReply_Nodata(t *testing.T) {
	msg, err := EncodeReply(domain.Reply{
		ID:       3,
		RCode:    domain.RCodeNoError,
		Question: domain.Question{Name: "test.com", Type: domain.RRTypeAAAA},
	})
	require.NoError(t, err)
	h, q, ans, _ := parseReply(t, msg)
	assert.Equal(t, dnsmessage.RCodeSuccess, h.RCode)
	assert.Equal(t, dnsmessage.TypeAAAA, q.Type)
	assert.Empty(t, ans)
}

func TestEncodeReply_Errors(t *testing.T) {
	longLabel := strings.Repeat("x", 64) + ".com"

	tests := []struct {
		name      string
		reply     domain.Reply
		wantErr   error
		wantEnc   bool
		wantProto bool
	}{
		{
			name: "out of range IPv4 octet",
			reply: domain.Reply{
				Question: domain.Question{Name: "bad.com", Type: domain.RRTypeA},
				Answers:  []domain.Answer{answer("bad.com", domain.A{Address: "1.2.3.256"})},
			},
			wantErr: rrdata.ErrInvalidAddress,
			wantEnc: true,
		},
		{
			name: "invalid IPv6 literal in additional",
			reply: domain.Reply{
				Question:   domain.Question{Name: "bad.com", Type: domain.RRTypeNS},
				Additional: []domain.Answer{answer("ns.bad.com", domain.AAAA{Address: "nope"})},
			},
			wantErr: rrdata.ErrInvalidAddress,
			wantEnc: true,
		},
		{
			name: "oversized CNAME target",
			reply: domain.Reply{
				Question: domain.Question{Name: "alias.com", Type: domain.RRTypeA},
				Answers:  []domain.Answer{answer("alias.com", domain.CNAME{Target: longLabel})},
			},
			wantErr: rrdata.ErrNameTooLong,
			wantEnc: true,
		},
		{
			name: "oversized owner",
			reply: domain.Reply{
				Question: domain.Question{Name: "ok.com", Type: domain.RRTypeA},
				Answers:  []domain.Answer{answer(longLabel, domain.A{Address: "1.2.3.4"})},
			},
			wantErr: rrdata.ErrNameTooLong,
			wantEnc: true,
		},
		{
			name: "nil record",
			reply: domain.Reply{
				Question: domain.Question{Name: "ok.com", Type: domain.RRTypeA},
				Answers:  []domain.Answer{{Owner: "ok.com"}},
			},
			wantEnc: true,
		},
		{
			name: "oversized question name",
			reply: domain.Reply{
				Question: domain.Question{Name: longLabel, Type: domain.RRTypeA},
			},
			wantErr:   rrdata.ErrNameTooLong,
			wantProto: true,
		},
		{
			name: "rcode does not fit",
			reply: domain.Reply{
				RCode:    domain.RCode(16),
				Question: domain.Question{Name: "ok.com", Type: domain.RRTypeA},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := EncodeReply(tt.reply)
			require.Error(t, err)
			assert.Nil(t, msg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			var ee *domain.EncodingError
			assert.Equal(t, tt.wantEnc, errors.As(err, &ee))
			var pe *domain.ProtocolError
			assert.Equal(t, tt.wantProto, errors.As(err, &pe))
		})
	}
}

func TestEncodeReply_TooManyAnswers(t *testing.T) {
	answers := make([]domain.Answer, 65536)
	for i := range answers {
		answers[i] = answer("a.com", domain.A{Address: "1.2.3.4"})
	}
	_, err := EncodeReply(domain.Reply{
		Question: domain.Question{Name: "a.com", Type: domain.RRTypeA},
		Answers:  answers,
	})
	assert.EqualError(t, err, "too many answer records: 65536 (max 65535)")
}

func TestEncodeHeaderOnly(t *testing.T) {
	msg := EncodeHeaderOnly(0xCAFE, domain.RCodeFormErr)
	assert.Equal(t, []byte{0xCA, 0xFE, 0x81, 0x81, 0, 0, 0, 0, 0, 0, 0, 0}, msg)
}

func TestEncodeReply_DecodeQuestionRoundTrip(t *testing.T) {
	q := domain.Question{Name: "ns1.example.org", Type: domain.RRTypeA, Class: domain.RRClassIN}
	msg, err := EncodeReply(domain.Reply{ID: 77, Question: q})
	require.NoError(t, err)

	got, next, err := DecodeQuery(msg)
	require.NoError(t, err)
	assert.Equal(t, q, got.Question)
	assert.Equal(t, uint16(77), got.Header.ID)
	assert.True(t, got.Header.Has(domain.FlagQR|domain.FlagRD|domain.FlagRA))
	assert.Equal(t, len(msg), next)
}
