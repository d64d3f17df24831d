package main

import (
	"context"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"github.com/haukened/zoned/internal/dns/common/log"
)

func BenchmarkBuildApplication(b *testing.B) {
	cfg := testConfig(b)
	logger := log.NewNoopLogger()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := buildApplication(cfg, logger); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkResponder_Builtin measures query handling without the socket.
func BenchmarkResponder_Builtin(b *testing.B) {
	cases := []struct {
		name  string
		qname string
		qtype uint16
	}{
		{"direct", "test.com.", dns.TypeA},
		{"alias chain", "alias2.com.", dns.TypeA},
		{"ns glue", "example.org.", dns.TypeNS},
		{"nxdomain", "missing.com.", dns.TypeA},
	}
	for _, disable := range []bool{false, true} {
		cfg := testConfig(b)
		cfg.DisableCache = disable
		app, err := buildApplication(cfg, log.NewNoopLogger())
		require.NoError(b, err)

		label := "cached"
		if disable {
			label = "uncached"
		}
		for _, c := range cases {
			m := new(dns.Msg)
			m.SetQuestion(c.qname, c.qtype)
			packet, err := m.Pack()
			require.NoError(b, err)

			b.Run(label+"/"+c.name, func(b *testing.B) {
				ctx := context.Background()
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := app.responder.Respond(ctx, packet); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkQuery_UDP(b *testing.B) {
	cfg := testConfig(b)
	app, err := buildApplication(cfg, log.NewNoopLogger())
	require.NoError(b, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	addr := cfg.ListenAddr()
	require.Eventually(b, func() bool {
		_, err := exchange(addr, "test.com.", dns.TypeA)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := exchange(addr, "alias2.com.", dns.TypeA); err != nil {
			b.Fatal(err)
		}
	}
}
