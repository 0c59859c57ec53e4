package domain

import (
	"fmt"
	"sync"

	"github.com/fliptech/ftab/internal/metrics"
)

// Resolver maps hostnames to domain configs. It is read-only after
// construction and safe for concurrent use.
type Resolver struct {
	byHost        map[string]DomainConfig
	order         []string
	defaultDomain string
	metrics       *metrics.Metrics
}

// NewResolver validates configs and picks defaultDomain as the fallback.
// An incomplete config or a missing default is a startup error.
func NewResolver(defaultDomain string, configs ...DomainConfig) (*Resolver, error) {
	r := &Resolver{
		byHost:        make(map[string]DomainConfig, len(configs)),
		defaultDomain: defaultDomain,
	}
	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, ok := r.byHost[c.Domain]; ok {
			return nil, fmt.Errorf("%w: duplicate domain %s", ErrInvalidConfig, c.Domain)
		}
		r.byHost[c.Domain] = c
		r.order = append(r.order, c.Domain)
	}
	if _, ok := r.byHost[defaultDomain]; !ok {
		return nil, fmt.Errorf("%w: default domain %q not configured", ErrInvalidConfig, defaultDomain)
	}
	return r, nil
}

// WithMetrics attaches resolution counters.
func (r *Resolver) WithMetrics(m *metrics.Metrics) *Resolver {
	r.metrics = m
	return r
}

// Resolve returns the config for hostname, or the default config for
// unrecognized hosts. Matching is exact.
func (r *Resolver) Resolve(hostname string) DomainConfig {
	c, ok := r.byHost[hostname]
	if !ok {
		c = r.byHost[r.defaultDomain]
	}
	r.metrics.IncrementResolution(c.Domain, !ok)
	return c
}

// Default returns the fallback config.
func (r *Resolver) Default() DomainConfig {
	return r.byHost[r.defaultDomain]
}

// Domains lists configured domains in declaration order.
func (r *Resolver) Domains() []string {
	return append([]string(nil), r.order...)
}

// Load starts a page load for hostname. The returned Page resolves lazily,
// once, and is meant to be discarded with the page.
func (r *Resolver) Load(hostname string, onResolve func(DomainConfig)) *Page {
	return &Page{resolver: r, hostname: hostname, onResolve: onResolve}
}

// Page caches one resolution for the duration of a page load.
type Page struct {
	resolver  *Resolver
	hostname  string
	onResolve func(DomainConfig)

	once   sync.Once
	config DomainConfig
}

func (p *Page) Config() DomainConfig {
	p.once.Do(func() {
		p.config = p.resolver.Resolve(p.hostname)
		if p.onResolve != nil {
			p.onResolve(p.config)
		}
	})
	return p.config
}

// Content returns the section content for this page's domain. Configs are
// validated at startup, so every known section is present.
func (p *Page) Content(section Section) SectionContent {
	return p.Config().Content[section]
}

func (p *Page) Hostname() string {
	return p.hostname
}
