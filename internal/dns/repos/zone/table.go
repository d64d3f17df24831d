// Package zone holds the static, in-memory zone table served by zoned and
// loads it from YAML, JSON or TOML zone files.
package zone

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/zoned/internal/dns/domain"
)

// falsePositiveRate sizes the owner-name prefilter.
const falsePositiveRate = 0.01

var (
	// ErrCNAMEConflict is returned for a name that has a CNAME next to other
	// records, or more than one CNAME.
	ErrCNAMEConflict = errors.New("CNAME must be the only record at a name")
	// ErrNilRecord is returned when a record slot is empty.
	ErrNilRecord = errors.New("nil record")
)

// Table maps owner names to their records. It is immutable once built, so a
// single Table may be shared by any number of goroutines.
type Table struct {
	records map[string][]domain.Record
	names   *bloom.BloomFilter
}

// NewTable copies records into a new Table. Record order within a name is
// kept. Names are stored exactly as given; lookups are case-sensitive.
func NewTable(records map[string][]domain.Record) (*Table, error) {
	t := &Table{
		records: make(map[string][]domain.Record, len(records)),
		names:   bloom.NewWithEstimates(uint(max(len(records), 1)), falsePositiveRate),
	}
	for name, rrs := range records {
		if err := checkRecords(rrs); err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		t.records[name] = append([]domain.Record(nil), rrs...)
		t.names.AddString(name)
	}
	return t, nil
}

func checkRecords(rrs []domain.Record) error {
	cnames := 0
	for i, r := range rrs {
		if r == nil {
			return fmt.Errorf("record %d: %w", i, ErrNilRecord)
		}
		if r.Type() == domain.RRTypeCNAME {
			cnames++
		}
	}
	if cnames > 1 || (cnames == 1 && len(rrs) > 1) {
		return ErrCNAMEConflict
	}
	return nil
}

// Lookup returns the records stored under name. The returned slice must not
// be modified.
func (t *Table) Lookup(name string) ([]domain.Record, bool) {
	if !t.names.TestString(name) {
		return nil, false
	}
	rrs, ok := t.records[name]
	return rrs, ok
}

// Names returns the owner names in the table, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.records))
	for name := range t.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of owner names.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns the total number of records across all names.
func (t *Table) Records() int {
	n := 0
	for _, rrs := range t.records {
		n += len(rrs)
	}
	return n
}
