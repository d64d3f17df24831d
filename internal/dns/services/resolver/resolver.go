package resolver

import (
	"github.com/haukened/zoned/internal/dns/common/log"
	"github.com/haukened/zoned/internal/dns/domain"
)

// ResolverOptions holds the collaborators of a Resolver. Zone is required;
// Cache and Observer may be nil.
type ResolverOptions struct {
	Zone     ZoneTable
	Cache    Cache
	Observer CacheObserver
	Logger   log.Logger
	MaxHops  int
	Policy   AliasPolicy
}

// Resolver turns a question into a domain.Resolution.
type Resolver struct {
	chaser   *Chaser
	cache    Cache
	observer CacheObserver
	logger   log.Logger
}

// NewResolver creates a Resolver from opts.
func NewResolver(opts ResolverOptions) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Resolver{
		chaser: NewChaser(opts.Zone, ChaserOptions{
			MaxHops: opts.MaxHops,
			Policy:  opts.Policy,
			Logger:  logger,
		}),
		cache:    opts.Cache,
		observer: opts.Observer,
		logger:   logger,
	}
}

// Resolve answers q from the zone. Answers are non-empty only for
// OutcomeSuccess; Additional carries glue when the final match is NS.
// Failed resolutions are never cached.
func (r *Resolver) Resolve(q domain.Question) (domain.Resolution, error) {
	key := q.CacheKey()
	if r.cache != nil {
		if res, ok := r.cache.Get(key); ok {
			r.observe(true)
			r.logger.Debug(map[string]any{"key": key, "outcome": res.Outcome.String()}, "Resolution cache hit")
			return res, nil
		}
		r.observe(false)
	}

	chain, err := r.chaser.ResolveChain(q.Name, q.Type)
	if err != nil {
		return domain.Resolution{}, err
	}

	res := classify(chain)
	if _, ok := chain.Final.(domain.NS); ok {
		res.Additional = r.chaser.BuildAdditional(res.Answers)
	}

	r.logger.Debug(map[string]any{
		"name":       q.Name,
		"type":       q.Type.String(),
		"outcome":    res.Outcome.String(),
		"answers":    len(res.Answers),
		"additional": len(res.Additional),
	}, "Resolved question")

	if r.cache != nil {
		r.cache.Put(key, res)
	}
	return res, nil
}

func (r *Resolver) observe(hit bool) {
	if r.observer == nil {
		return
	}
	if hit {
		r.observer.CacheHit()
	} else {
		r.observer.CacheMiss()
	}
}

func classify(chain Chain) domain.Resolution {
	switch {
	case len(chain.Answers) > 0:
		return domain.Resolution{Outcome: domain.OutcomeSuccess, Answers: chain.Answers}
	case chain.NameFound:
		return domain.Resolution{Outcome: domain.OutcomeNodata}
	default:
		return domain.Resolution{Outcome: domain.OutcomeNotFound}
	}
}
