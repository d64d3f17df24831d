package zone

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/haukened/zoned/internal/dns/common/rrdata"
	"github.com/haukened/zoned/internal/dns/domain"
)

// ErrUnsupportedFormat is returned for a zone file extension with no parser.
var ErrUnsupportedFormat = errors.New("unsupported zone file format")

// SupportedExtensions lists the zone file extensions LoadFile understands.
var SupportedExtensions = []string{".yaml", ".yml", ".json", ".toml"}

// parserFor picks a koanf parser from the file extension.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadFile reads a zone file. The file holds a "records" map from owner
// name to an ordered list of {type, value} entries:
//
//	records:
//	  example.com:
//	    - { type: A, value: 1.2.3.4 }
//	    - { type: AAAA, value: "2001:db8::1" }
//	  alias.com:
//	    - { type: CNAME, value: example.com }
//
// A single trailing dot on owners and targets is dropped. Every value is
// encoded once at load so bad data is rejected here rather than at query time.
func LoadFile(path string) (*Table, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	// The raw bytes are unmarshalled directly: owner names contain dots and
	// must not be split into nested keys.
	b, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to read zone file %s: %w", path, err)
	}
	doc, err := parser.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zone file %s: %w", path, err)
	}

	raw, ok := doc["records"]
	if !ok {
		return nil, fmt.Errorf("zone file %s missing 'records'", path)
	}
	owners, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("zone file %s: 'records' must be a map, got %T", path, raw)
	}

	records := make(map[string][]domain.Record, len(owners))
	for owner, entries := range owners {
		name := trimDot(owner)
		if _, err := rrdata.EncodeName(name); err != nil {
			return nil, fmt.Errorf("zone file %s: owner %q: %w", path, owner, err)
		}
		list, err := entryList(entries)
		if err != nil {
			return nil, fmt.Errorf("zone file %s: owner %q: %w", path, owner, err)
		}
		for i, e := range list {
			rec, err := buildRecord(e)
			if err != nil {
				return nil, fmt.Errorf("zone file %s: %s[%d]: %w", path, owner, i, err)
			}
			records[name] = append(records[name], rec)
		}
	}

	t, err := NewTable(records)
	if err != nil {
		return nil, fmt.Errorf("zone file %s: %w", path, err)
	}
	return t, nil
}

// entryList normalizes what the parsers produce for a list of tables.
func entryList(v any) ([]map[string]any, error) {
	switch list := v.(type) {
	case []map[string]any:
		return list, nil
	case []any:
		out := make([]map[string]any, 0, len(list))
		for i, elem := range list {
			m, ok := elem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected a {type, value} table, got %T", i, elem)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of records, got %T", v)
	}
}

func buildRecord(entry map[string]any) (domain.Record, error) {
	typ, _ := entry["type"].(string)
	value, _ := entry["value"].(string)
	value = strings.TrimSpace(value)

	rrtype := domain.RRTypeFromString(strings.ToUpper(strings.TrimSpace(typ)))
	if !rrtype.IsRecordType() {
		return nil, fmt.Errorf("unsupported record type %q", typ)
	}
	if rrtype == domain.RRTypeCNAME || rrtype == domain.RRTypeNS {
		value = trimDot(value)
	}
	rec, err := domain.NewRecord(rrtype, value)
	if err != nil {
		return nil, err
	}
	if _, err := rec.RData(); err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", rrtype, value, err)
	}
	return rec, nil
}

func trimDot(name string) string {
	return strings.TrimSuffix(name, ".")
}
