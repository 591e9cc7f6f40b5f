// Package resolver implements iterative DNS resolution: starting from a
// seed set of name servers, it follows referrals down the delegation chain
// until it reaches an authoritative answer, resolving "glueless" NS names
// along the way.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dnsscience/dnswalker/internal/cache"
	"github.com/dnsscience/dnswalker/internal/eventbus"
	"github.com/dnsscience/dnswalker/internal/hints"
	"github.com/dnsscience/dnswalker/internal/metrics"
	"github.com/dnsscience/dnswalker/internal/wire"
)

var (
	// ErrEmptyName is returned when RecursiveQuery is called with an empty
	// or all-dots name.
	ErrEmptyName = errors.New("resolver: empty query name")
	// ErrUnknownType is returned when a string type name doesn't match any
	// supported QTYPE.
	ErrUnknownType = errors.New("resolver: unknown query type")
	// ErrNoNameservers is returned when a referral's NS names cannot be
	// resolved to any address, cached or otherwise.
	ErrNoNameservers = errors.New("resolver: referral produced no resolvable nameservers")
	// ErrNoAnswer is returned when every candidate server in an iteration
	// step timed out.
	ErrNoAnswer = errors.New("resolver: no server answered")
	// ErrMaxIterations is returned when resolution doesn't converge within
	// the configured referral-following bound.
	ErrMaxIterations = errors.New("resolver: max iterations reached without an answer")
)

// Exchanger sends one query to a set of candidate servers and returns the
// first validated response. transport.Client satisfies this.
type Exchanger interface {
	SendQuery(ctx context.Context, name string, qtype wire.RRType, servers []string, rd bool) (*wire.Message, error)
}

// Config tunes the resolver's bounds.
type Config struct {
	// MaxIterations caps how many referral hops a single RecursiveQuery
	// will follow before giving up.
	MaxIterations int
	// MaxGlueDepth caps how deep glueless NS resolution may recurse
	// (a nested RecursiveQuery("A", ns-name) can itself hit a glueless
	// referral); this is independent of MaxIterations since it bounds
	// recursion through resolveNSAddresses rather than the outer loop.
	MaxGlueDepth int
}

// DefaultConfig returns sensible bounds for both limits.
func DefaultConfig() Config {
	return Config{MaxIterations: 20, MaxGlueDepth: 4}
}

// Resolver performs iterative resolution against a cache seeded by a root
// hints file.
type Resolver struct {
	cache     *cache.Cache
	transport Exchanger
	roots     hints.RootServers
	bus       *eventbus.Bus
	cfg       Config
	log       *logrus.Entry
}

// New creates a Resolver. bus may be nil, in which case events are simply
// not published.
func New(c *cache.Cache, roots hints.RootServers, transport Exchanger, bus *eventbus.Bus, cfg Config) *Resolver {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	if cfg.MaxGlueDepth <= 0 {
		cfg.MaxGlueDepth = DefaultConfig().MaxGlueDepth
	}
	return &Resolver{
		cache:     c,
		transport: transport,
		roots:     roots,
		bus:       bus,
		cfg:       cfg,
		log:       logrus.WithField("component", "resolver"),
	}
}

// RecursiveQuery resolves name/qtype, following referrals from the nearest
// cached nameserver (or the root, if none is cached) until it reaches an
// authoritative answer or a definitive negative response.
func (r *Resolver) RecursiveQuery(ctx context.Context, name string, qtype wire.RRType) (*wire.Message, error) {
	start := time.Now()
	resp, err := r.recursiveQuery(ctx, name, qtype, 0)

	result := "answer"
	switch {
	case err != nil:
		result = "error"
	case resp != nil && resp.Header.Rcode != wire.RcodeNoError:
		result = "negative"
	}
	metrics.ObserveQuery(qtype.String(), result, start)
	if r.bus != nil {
		r.bus.Publish(eventbus.TopicQuery, name)
	}

	return resp, err
}

// RecursiveQueryByTypeName is the string-typed entry point for callers
// (such as the CLI's custom-query mode) that only have a type name in
// hand; it maps the name to a QTYPE and delegates to RecursiveQuery. This
// keeps the core entry point strictly typed rather than accepting a qtype
// that might be a string or an enum.
func (r *Resolver) RecursiveQueryByTypeName(ctx context.Context, name, typeName string) (*wire.Message, error) {
	qtype, ok := wire.ParseType(typeName)
	if !ok {
		return nil, ErrUnknownType
	}
	return r.RecursiveQuery(ctx, name, qtype)
}

func (r *Resolver) recursiveQuery(ctx context.Context, name string, qtype wire.RRType, glueDepth int) (*wire.Message, error) {
	sanitized := wire.Sanitize(name)
	if sanitized == "." || sanitized == "" {
		return nil, ErrEmptyName
	}

	if cached := r.cache.Lookup(sanitized, qtype); len(cached) > 0 {
		metrics.ObserveCacheLookup("hit")
		return synthesizeFromCache(sanitized, qtype, cached), nil
	}
	metrics.ObserveCacheLookup("miss")

	nearestNS := r.cache.NearestNS(sanitized)
	var servers []string
	if len(nearestNS) == 0 {
		servers = r.roots.V4
	} else {
		servers = r.resolveNSAddresses(ctx, nsNames(nearestNS), glueDepth)
		if len(servers) == 0 {
			return nil, ErrNoNameservers
		}
	}

	iterations := 0
	for len(servers) > 0 {
		iterations++
		if iterations > r.cfg.MaxIterations {
			return nil, ErrMaxIterations
		}

		resp, err := r.transport.SendQuery(ctx, sanitized, qtype, servers, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoAnswer, err)
		}

		if resp.Header.Rcode != wire.RcodeNoError {
			r.log.WithFields(logrus.Fields{"name": sanitized, "rcode": resp.Header.Rcode}).Debug("upstream returned a non-success rcode")
			return resp, nil
		}

		r.cacheSections(resp)

		if len(resp.Answer) > 0 {
			metrics.Iterations.Observe(float64(iterations))
			return resp, nil
		}

		next := r.referralServers(ctx, resp, glueDepth)
		if len(next) == 0 {
			return nil, ErrNoNameservers
		}
		if r.bus != nil {
			r.bus.Publish(eventbus.TopicReferral, sanitized)
		}
		servers = next
	}

	return nil, ErrMaxIterations
}

// referralServers extracts NS candidates from a referral response —
// authority-section and additional-section NS records, plus SOA mname as a
// fallback candidate — and resolves them to a usable server list.
func (r *Resolver) referralServers(ctx context.Context, resp *wire.Message, glueDepth int) []string {
	var names []string
	for _, rr := range resp.Authority {
		switch rdata := rr.RData.(type) {
		case wire.NS:
			names = append(names, rdata.Name)
		case wire.SOA:
			names = append(names, rdata.MName)
		}
	}
	for _, rr := range resp.Additional {
		switch rdata := rr.RData.(type) {
		case wire.NS:
			names = append(names, rdata.Name)
		case wire.SOA:
			names = append(names, rdata.MName)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return r.resolveNSAddresses(ctx, names, glueDepth)
}

// resolveNSAddresses turns a list of nameserver domain names into IPv4
// addresses: a cache-only first pass (glue is usually already cached from
// the referral that named these servers), falling back to a nested
// RecursiveQuery per name, stopping at the first one that yields an
// address.
func (r *Resolver) resolveNSAddresses(ctx context.Context, names []string, glueDepth int) []string {
	var addrs []string
	for _, name := range names {
		for _, rr := range r.cache.Lookup(name, wire.TypeA) {
			if a, ok := rr.RData.(wire.A); ok {
				addrs = append(addrs, a.String())
			}
		}
	}
	if len(addrs) > 0 {
		return addrs
	}

	if glueDepth >= r.cfg.MaxGlueDepth {
		return nil
	}
	for _, name := range names {
		resp, err := r.recursiveQuery(ctx, name, wire.TypeA, glueDepth+1)
		if err != nil || resp == nil || len(resp.Answer) == 0 {
			continue
		}
		var found []string
		for _, rr := range resp.Answer {
			if a, ok := rr.RData.(wire.A); ok {
				found = append(found, a.String())
			}
		}
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

// cacheSections inserts every record from a response's answer, authority
// and additional sections into the cache.
func (r *Resolver) cacheSections(resp *wire.Message) {
	for _, rr := range resp.Answer {
		r.cache.Insert(rr)
	}
	for _, rr := range resp.Authority {
		r.cache.Insert(rr)
	}
	for _, rr := range resp.Additional {
		r.cache.Insert(rr)
	}
	if r.bus != nil {
		r.bus.Publish(eventbus.TopicCache, len(resp.Answer)+len(resp.Authority)+len(resp.Additional))
	}
}

func nsNames(records []wire.Record) []string {
	names := make([]string, 0, len(records))
	for _, rr := range records {
		if ns, ok := rr.RData.(wire.NS); ok {
			names = append(names, ns.Name)
		}
	}
	return names
}

// synthesizeFromCache builds a response-shaped message from a cache hit so
// the fast path returns the same shape as a resolved query.
func synthesizeFromCache(name string, qtype wire.RRType, records []wire.Record) *wire.Message {
	return &wire.Message{
		Header: wire.Header{
			QR:    true,
			RD:    true,
			RA:    true,
			Rcode: wire.RcodeNoError,
		},
		Question: []wire.Question{{Name: name, Type: qtype, Class: wire.ClassIN}},
		Answer:   records,
	}
}
