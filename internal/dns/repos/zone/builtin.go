package zone

import "github.com/haukened/zoned/internal/dns/domain"

// builtinRecords is served when no zone file is configured.
func builtinRecords() map[string][]domain.Record {
	return map[string][]domain.Record{
		"example.com": {
			domain.A{Address: "1.2.3.4"},
			domain.AAAA{Address: "2001:db8::1"},
		},
		"test.com":        {domain.A{Address: "5.6.7.8"}},
		"alias.com":       {domain.CNAME{Target: "example.com"}},
		"alias2.com":      {domain.CNAME{Target: "alias.com"}},
		"example.org":     {domain.NS{Host: "ns1.example.org"}},
		"example.net":     {domain.NS{Host: "ns1.example.net"}},
		"ns1.example.org": {domain.A{Address: "9.9.9.9"}},
	}
}

// Builtin returns the default table.
func Builtin() *Table {
	t, err := NewTable(builtinRecords())
	if err != nil {
		panic(err)
	}
	return t
}
