package resolver

import "github.com/haukened/zoned/internal/dns/domain"

// BuildAdditional returns A glue for every NS answer whose host is in the
// zone. Glue owners are the NS host names. AAAA records at the host are not
// used and glue is never chased further.
func (c *Chaser) BuildAdditional(answers []domain.Answer) []domain.Answer {
	var extra []domain.Answer
	for _, a := range answers {
		ns, ok := a.Record.(domain.NS)
		if !ok {
			continue
		}
		records, found := c.zone.Lookup(ns.Host)
		if !found {
			continue
		}
		for _, r := range records {
			if addr, ok := r.(domain.A); ok {
				extra = append(extra, domain.Answer{Owner: ns.Host, Record: addr})
			}
		}
	}
	return extra
}
