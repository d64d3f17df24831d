// Package responder turns one request datagram into one reply datagram. It
// owns the rcode policy for malformed requests and internal faults and is
// independent of any socket.
package responder

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/haukened/zoned/internal/dns/common/clock"
	"github.com/haukened/zoned/internal/dns/common/log"
	"github.com/haukened/zoned/internal/dns/domain"
	"github.com/haukened/zoned/internal/dns/gateways/wire"
)

// ErrShortMessage is returned for datagrams too short to carry an ID. No
// reply is produced for them.
var ErrShortMessage = errors.New("message shorter than DNS header")

// QueryResolver answers a decoded question.
type QueryResolver interface {
	Resolve(q domain.Question) (domain.Resolution, error)
}

// Recorder receives per-query measurements.
type Recorder interface {
	ObserveQuery(rc domain.RCode, elapsed time.Duration)
	Dropped()
}

// Options holds the collaborators of a Responder. Codec and Resolver are
// required; the rest default to no-ops and the real clock.
type Options struct {
	Codec    wire.DNSCodec
	Resolver QueryResolver
	Metrics  Recorder
	Clock    clock.Clock
	Logger   log.Logger
}

// Responder runs the decode, resolve, encode pipeline.
type Responder struct {
	codec    wire.DNSCodec
	resolver QueryResolver
	metrics  Recorder
	clock    clock.Clock
	logger   log.Logger
}

// New creates a Responder from opts.
func New(opts Options) *Responder {
	r := &Responder{
		codec:    opts.Codec,
		resolver: opts.Resolver,
		metrics:  opts.Metrics,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
	if r.metrics == nil {
		r.metrics = nopRecorder{}
	}
	if r.clock == nil {
		r.clock = clock.RealClock{}
	}
	if r.logger == nil {
		r.logger = log.NewNoopLogger()
	}
	return r
}

// Respond returns the reply for data. A nil reply with a non-nil error
// means the datagram is dropped. Every other outcome, including malformed
// requests and internal faults, yields a reply and a nil error.
func (r *Responder) Respond(ctx context.Context, data []byte) ([]byte, error) {
	start := r.clock.Now()
	if err := ctx.Err(); err != nil {
		r.metrics.Dropped()
		return nil, err
	}
	if len(data) < domain.HeaderSize {
		r.metrics.Dropped()
		return nil, fmt.Errorf("%w: %d bytes", ErrShortMessage, len(data))
	}

	q, err := r.codec.DecodeQuery(data)
	if err != nil {
		id := binary.BigEndian.Uint16(data[0:2])
		r.logger.Warn(map[string]any{"id": id, "size": len(data), "error": err}, "Malformed DNS query")
		return r.finish(start, domain.RCodeFormErr, r.codec.EncodeHeaderOnly(id, domain.RCodeFormErr))
	}

	res, err := r.resolver.Resolve(q.Question)
	if err != nil {
		r.logger.Warn(map[string]any{
			"id":    q.Header.ID,
			"name":  q.Question.Name,
			"type":  q.Question.Type.String(),
			"error": err,
		}, "Resolution failed")
		return r.servfail(start, q)
	}

	reply := domain.NewReply(q, res)
	out, err := r.codec.EncodeReply(reply)
	if err != nil {
		r.logger.Error(map[string]any{
			"id":    q.Header.ID,
			"name":  q.Question.Name,
			"type":  q.Question.Type.String(),
			"error": err,
		}, "Failed to encode DNS response")
		return r.servfail(start, q)
	}

	r.logger.Debug(map[string]any{
		"id":      q.Header.ID,
		"name":    q.Question.Name,
		"type":    q.Question.Type.String(),
		"outcome": res.Outcome.String(),
		"rcode":   reply.RCode.String(),
		"answers": len(reply.Answers),
	}, "Answered DNS query")
	return r.finish(start, reply.RCode, out)
}

// HandlePacket adapts Respond to the transport's packet handler contract.
func (r *Responder) HandlePacket(ctx context.Context, data []byte, _ net.Addr) ([]byte, error) {
	return r.Respond(ctx, data)
}

func (r *Responder) servfail(start time.Time, q domain.Query) ([]byte, error) {
	out, err := r.codec.EncodeReply(domain.NewErrorReply(q, domain.RCodeServFail))
	if err != nil {
		out = r.codec.EncodeHeaderOnly(q.Header.ID, domain.RCodeServFail)
	}
	return r.finish(start, domain.RCodeServFail, out)
}

func (r *Responder) finish(start time.Time, rc domain.RCode, out []byte) ([]byte, error) {
	r.metrics.ObserveQuery(rc, clock.Since(r.clock, start))
	return out, nil
}

type nopRecorder struct{}

func (nopRecorder) ObserveQuery(domain.RCode, time.Duration) {}
func (nopRecorder) Dropped()                                 {}
