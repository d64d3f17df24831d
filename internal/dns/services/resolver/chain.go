// Package resolver answers a question from the static zone table. It follows
// CNAME chains up to a hop limit, picks the matching record, attaches NS glue,
// and classifies the result as success, nodata or not found.
package resolver

import (
	"fmt"
	"strings"

	"github.com/haukened/zoned/internal/dns/common/log"
	"github.com/haukened/zoned/internal/dns/domain"
)

// DefaultMaxHops is the number of CNAME indirections followed when no limit
// is configured.
const DefaultMaxHops = 5

// AliasPolicy decides what happens when the hop limit runs out.
type AliasPolicy uint8

const (
	// AliasPolicyPartial answers with the CNAMEs gathered so far.
	AliasPolicyPartial AliasPolicy = iota
	// AliasPolicyFail reports domain.ErrAliasLoop so the query fails.
	AliasPolicyFail
)

func (p AliasPolicy) String() string {
	switch p {
	case AliasPolicyPartial:
		return "partial"
	case AliasPolicyFail:
		return "fail"
	default:
		return fmt.Sprintf("AliasPolicy(%d)", uint8(p))
	}
}

// ParseAliasPolicy maps a configuration value onto an AliasPolicy.
func ParseAliasPolicy(s string) (AliasPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "partial":
		return AliasPolicyPartial, nil
	case "fail":
		return AliasPolicyFail, nil
	default:
		return 0, fmt.Errorf("unknown alias policy %q", s)
	}
}

// ChaserOptions configures a Chaser. A MaxHops of zero or less selects
// DefaultMaxHops; a nil Logger discards output.
type ChaserOptions struct {
	MaxHops int
	Policy  AliasPolicy
	Logger  log.Logger
}

// Chaser walks CNAME chains through a ZoneTable.
type Chaser struct {
	zone    ZoneTable
	maxHops int
	policy  AliasPolicy
	logger  log.Logger
}

// NewChaser binds a Chaser to zone.
func NewChaser(zone ZoneTable, opts ChaserOptions) *Chaser {
	if opts.MaxHops <= 0 {
		opts.MaxHops = DefaultMaxHops
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	return &Chaser{
		zone:    zone,
		maxHops: opts.MaxHops,
		policy:  opts.Policy,
		logger:  opts.Logger,
	}
}

// Chain is the outcome of walking from the queried name.
type Chain struct {
	// Answers holds each CNAME followed, then the final match if any.
	Answers []domain.Answer
	// Final is the record that ended the walk, nil when nothing matched.
	Final domain.Record
	// NameFound reports whether the queried name itself is in the zone.
	NameFound bool
}

// ResolveChain looks up name and follows CNAMEs until it reaches a record of
// type qtype (any record for ANY), a name with no match, a missing name, or
// the hop limit. A CNAME is followed even when qtype is CNAME.
//
// The error is non-nil only when the hop limit runs out under
// AliasPolicyFail; the partial chain is returned alongside it.
func (c *Chaser) ResolveChain(name string, qtype domain.RRType) (Chain, error) {
	var chain Chain
	current := name
	for hops := 0; ; {
		if hops >= c.maxHops {
			return c.exhausted(name, qtype, chain)
		}
		records, ok := c.zone.Lookup(current)
		if !ok {
			return chain, nil
		}
		if hops == 0 {
			chain.NameFound = true
		}
		if cname, ok := findCNAME(records); ok {
			chain.Answers = append(chain.Answers, domain.Answer{Owner: current, Record: cname})
			current = cname.Target
			hops++
			continue
		}
		if rec := match(records, qtype); rec != nil {
			chain.Answers = append(chain.Answers, domain.Answer{Owner: current, Record: rec})
			chain.Final = rec
		}
		return chain, nil
	}
}

func (c *Chaser) exhausted(name string, qtype domain.RRType, chain Chain) (Chain, error) {
	c.logger.Warn(map[string]any{
		"name":      name,
		"type":      qtype.String(),
		"max_hops":  c.maxHops,
		"chain_len": len(chain.Answers),
		"policy":    c.policy.String(),
	}, "Alias hop limit exhausted")
	if c.policy == AliasPolicyFail {
		return chain, fmt.Errorf("%w: %s after %d hops", domain.ErrAliasLoop, name, c.maxHops)
	}
	return chain, nil
}

func findCNAME(records []domain.Record) (domain.CNAME, bool) {
	for _, r := range records {
		if cname, ok := r.(domain.CNAME); ok {
			return cname, true
		}
	}
	return domain.CNAME{}, false
}

// match returns the first record of type qtype, or the first record of any
// type for ANY.
func match(records []domain.Record, qtype domain.RRType) domain.Record {
	if qtype == domain.RRTypeANY {
		if len(records) > 0 {
			return records[0]
		}
		return nil
	}
	for _, r := range records {
		if r.Type() == qtype {
			return r
		}
	}
	return nil
}
