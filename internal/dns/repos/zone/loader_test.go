package zone

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/zoned/internal/dns/common/rrdata"
	"github.com/haukened/zoned/internal/dns/domain"
)

const testYAML = `
records:
  example.com.:
    - { type: A, value: 1.2.3.4 }
    - { type: aaaa, value: "2001:db8::1" }
  alias.com:
    - type: CNAME
      value: example.com.
  example.org:
    - { type: NS, value: ns1.example.org }
  ns1.example.org:
    - { type: A, value: 9.9.9.9 }
`

const testJSON = `{
  "records": {
    "example.com": [
      {"type": "AAAA", "value": "2001:db8::1"},
      {"type": "A", "value": "1.2.3.4"}
    ],
    "alias.com": [{"type": "CNAME", "value": "example.com"}]
  }
}`

const testTOML = `
[records]
"example.com" = [
  { type = "A", value = "1.2.3.4" },
  { type = "AAAA", value = "2001:db8::1" },
]
"alias.com" = [ { type = "CNAME", value = "example.com" } ]
`

func writeZone(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_Formats(t *testing.T) {
	tests := []struct {
		file    string
		content string
		names   []string
		first   domain.Record
	}{
		{
			file:    "zone.yaml",
			content: testYAML,
			names:   []string{"alias.com", "example.com", "example.org", "ns1.example.org"},
			first:   domain.A{Address: "1.2.3.4"},
		},
		{
			file:    "zone.yml",
			content: testYAML,
			names:   []string{"alias.com", "example.com", "example.org", "ns1.example.org"},
			first:   domain.A{Address: "1.2.3.4"},
		},
		{
			file:    "zone.json",
			content: testJSON,
			names:   []string{"alias.com", "example.com"},
			first:   domain.AAAA{Address: "2001:db8::1"},
		},
		{
			file:    "zone.toml",
			content: testTOML,
			names:   []string{"alias.com", "example.com"},
			first:   domain.A{Address: "1.2.3.4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			table, err := LoadFile(writeZone(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.names, table.Names())

			rrs, ok := table.Lookup("example.com")
			require.True(t, ok)
			require.Len(t, rrs, 2)
			assert.Equal(t, tt.first, rrs[0], "entry order is kept")

			alias, ok := table.Lookup("alias.com")
			require.True(t, ok)
			assert.Equal(t, []domain.Record{domain.CNAME{Target: "example.com"}}, alias)
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
		wantMsg string
	}{
		{
			name:    "unsupported extension",
			file:    "zone.txt",
			content: "records: {}",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "malformed yaml",
			file:    "zone.yaml",
			content: "records:\n\t- broken",
			wantMsg: "failed to parse",
		},
		{
			name:    "missing records key",
			file:    "zone.yaml",
			content: "zone_root: example.com\n",
			wantMsg: "missing 'records'",
		},
		{
			name:    "records not a map",
			file:    "zone.yaml",
			content: "records: [1, 2]\n",
			wantMsg: "must be a map",
		},
		{
			name:    "owner without a list",
			file:    "zone.yaml",
			content: "records:\n  a.test: 1.2.3.4\n",
			wantMsg: "expected a list of records",
		},
		{
			name:    "entry not a table",
			file:    "zone.yaml",
			content: "records:\n  a.test:\n    - 1.2.3.4\n",
			wantMsg: "expected a {type, value} table",
		},
		{
			name:    "unknown type",
			file:    "zone.yaml",
			content: "records:\n  a.test:\n    - { type: MX, value: mail.a.test }\n",
			wantMsg: `unsupported record type "MX"`,
		},
		{
			name:    "ANY is not storable",
			file:    "zone.yaml",
			content: "records:\n  a.test:\n    - { type: ANY, value: x }\n",
			wantMsg: "unsupported record type",
		},
		{
			name:    "empty value",
			file:    "zone.yaml",
			content: "records:\n  a.test:\n    - { type: A, value: \"\" }\n",
			wantMsg: "empty value",
		},
		{
			name:    "bad IPv4",
			file:    "zone.yaml",
			content: "records:\n  a.test:\n    - { type: A, value: 1.2.3.256 }\n",
			wantErr: rrdata.ErrInvalidAddress,
		},
		{
			name:    "IPv6 in an A record",
			file:    "zone.yaml",
			content: "records:\n  a.test:\n    - { type: A, value: \"::1\" }\n",
			wantErr: rrdata.ErrInvalidAddress,
		},
		{
			name:    "oversized owner label",
			file:    "zone.yaml",
			content: "records:\n  " + strings.Repeat("a", 64) + ".test:\n    - { type: A, value: 1.2.3.4 }\n",
			wantErr: rrdata.ErrNameTooLong,
		},
		{
			name:    "CNAME beside other data",
			file:    "zone.yaml",
			content: "records:\n  a.test:\n    - { type: CNAME, value: b.test }\n    - { type: A, value: 1.2.3.4 }\n",
			wantErr: ErrCNAMEConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := LoadFile(writeZone(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Nil(t, table)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
