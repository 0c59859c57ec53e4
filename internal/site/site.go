// Package site wires the experimentation core together for one visitor
// context: identity, assignment, domain resolution and analytics.
package site

import (
	"go.uber.org/zap"

	"github.com/fliptech/ftab/internal/analytics"
	"github.com/fliptech/ftab/internal/domain"
	"github.com/fliptech/ftab/internal/env"
	"github.com/fliptech/ftab/internal/experiment"
	"github.com/fliptech/ftab/internal/identity"
	"github.com/fliptech/ftab/internal/metrics"
)

// Core holds the immutable, shared parts built once at startup.
type Core struct {
	Registry *experiment.Registry
	Resolver *domain.Resolver
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// Client serves one visitor context (a browser profile, an HTTP request).
type Client struct {
	env      env.Environment
	registry *experiment.Registry
	engine   *experiment.Engine
	identity *identity.Store
	resolver *domain.Resolver
	emitter  *analytics.Emitter
}

type Option func(*clientOptions)

type clientOptions struct {
	identityOpts []identity.Option
}

// WithIdentityOptions customizes id generation.
func WithIdentityOptions(opts ...identity.Option) Option {
	return func(o *clientOptions) { o.identityOpts = append(o.identityOpts, opts...) }
}

// NewClient binds the shared core to a visitor environment.
func (c *Core) NewClient(e env.Environment, opts ...Option) *Client {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		env:      e,
		registry: c.Registry,
		engine:   experiment.NewEngine(c.Registry, e.Storage, c.Metrics),
		identity: identity.New(e.Storage, o.identityOpts...),
		resolver: c.Resolver,
		emitter:  analytics.NewEmitter(e.Sink, c.Logger, c.Metrics),
	}
}

// UserID returns the visitor's stable id.
func (c *Client) UserID() string {
	return c.identity.GetOrCreateUserID()
}

// Variant assigns the visitor in experimentID and emits a view event.
func (c *Client) Variant(experimentID string) string {
	userID := c.UserID()
	variant := c.engine.Assign(experimentID, userID)
	c.emitter.TrackVariantView(experimentID, variant, userID)
	return variant
}

// Assignments returns the visitor's variant for each named experiment,
// emitting one view event each. With no ids it covers every active
// experiment. Repeated and empty ids are skipped.
func (c *Client) Assignments(experimentIDs ...string) map[string]string {
	if len(experimentIDs) == 0 {
		for _, exp := range c.registry.ListActive() {
			experimentIDs = append(experimentIDs, exp.ID)
		}
	}

	out := make(map[string]string, len(experimentIDs))
	for _, id := range experimentIDs {
		if id == "" {
			continue
		}
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = c.Variant(id)
	}
	return out
}

// Convert reports a conversion. The caller passes the variant it was shown.
func (c *Client) Convert(experimentID, variantID, conversionType string) {
	c.emitter.TrackVariantConversion(experimentID, variantID, c.UserID(), conversionType)
}

// Track reports a UI engagement event; it returns false for unknown events.
func (c *Client) Track(event, experimentID, variantID, label string) bool {
	return c.emitter.Track(event, experimentID, variantID, c.UserID(), label)
}

// LoadPage starts a page load for the environment's hostname. Resolving the
// page emits one domain_assignment event.
func (c *Client) LoadPage() *domain.Page {
	return c.resolver.Load(c.env.CurrentHostname(), func(cfg domain.DomainConfig) {
		c.emitter.TrackDomainAssignment(cfg.Domain, string(cfg.Audience))
	})
}

// ResetIdentity forgets the visitor id. Subsequent calls see a new visitor.
func (c *Client) ResetIdentity() error {
	return c.identity.ResetUserID()
}

func (c *Client) Engine() *experiment.Engine {
	return c.engine
}

func (c *Client) Emitter() *analytics.Emitter {
	return c.emitter
}
