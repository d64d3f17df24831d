// Package metrics exposes query counters and latency in Prometheus text
// format using VictoriaMetrics/metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/haukened/zoned/internal/dns/common/log"
	"github.com/haukened/zoned/internal/dns/domain"
)

// Metric names.
const (
	QueriesTotal  = "zoned_queries_total"
	DroppedTotal  = "zoned_dropped_total"
	CacheHits     = "zoned_cache_hits_total"
	CacheMisses   = "zoned_cache_misses_total"
	QueryDuration = "zoned_query_duration_seconds"
)

// Metrics is a private metric set for one server instance.
type Metrics struct {
	set         *vm.Set
	dropped     *vm.Counter
	cacheHits   *vm.Counter
	cacheMisses *vm.Counter
	duration    *vm.Histogram
}

// New registers all zoned metrics in a fresh set.
func New() *Metrics {
	s := vm.NewSet()
	m := &Metrics{
		set:         s,
		dropped:     s.NewCounter(DroppedTotal),
		cacheHits:   s.NewCounter(CacheHits),
		cacheMisses: s.NewCounter(CacheMisses),
		duration:    s.NewHistogram(QueryDuration),
	}
	for _, rc := range []domain.RCode{domain.RCodeNoError, domain.RCodeFormErr, domain.RCodeServFail, domain.RCodeNXDomain} {
		s.NewCounter(queriesName(rc))
	}
	return m
}

func queriesName(rc domain.RCode) string {
	return fmt.Sprintf(`%s{rcode=%q}`, QueriesTotal, rc.String())
}

// ObserveQuery counts one answered query and its handling time.
func (m *Metrics) ObserveQuery(rc domain.RCode, elapsed time.Duration) {
	m.set.GetOrCreateCounter(queriesName(rc)).Inc()
	m.duration.Update(elapsed.Seconds())
}

// Dropped counts a datagram that got no reply.
func (m *Metrics) Dropped() { m.dropped.Inc() }

// CacheHit counts a resolution served from the answer cache.
func (m *Metrics) CacheHit() { m.cacheHits.Inc() }

// CacheMiss counts a resolution computed from the zone table.
func (m *Metrics) CacheMiss() { m.cacheMisses.Inc() }

// Queries returns the number of queries answered with rc.
func (m *Metrics) Queries(rc domain.RCode) uint64 {
	return m.set.GetOrCreateCounter(queriesName(rc)).Get()
}

// DroppedCount returns the number of dropped datagrams.
func (m *Metrics) DroppedCount() uint64 { return m.dropped.Get() }

// WritePrometheus writes the set, followed by process metrics when
// withProcess is true.
func (m *Metrics) WritePrometheus(w io.Writer, withProcess bool) {
	m.set.WritePrometheus(w)
	if withProcess {
		vm.WriteProcessMetrics(w)
	}
}

// Handler serves the metrics page.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		m.WritePrometheus(w, true)
	})
}

// Serve exposes /metrics on addr until ctx is cancelled. The listener is
// bound before Serve returns its first error, so a bad address fails fast.
func (m *Metrics) Serve(ctx context.Context, addr string, logger log.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(map[string]any{"addr": ln.Addr().String()}, "Metrics endpoint listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
