// Package registry provides the rule-node component registry: a lazily
// built, sorted and cached view of every component descriptor the descriptor
// source offers, with class lookup that falls back to a placeholder.
//
// The first GetComponents call fetches descriptors, preloads each one's UI
// resources and appends the synthetic rule chain descriptor before sorting.
// The resulting slice is cached and returned as-is by later calls until
// Invalidate drops it or the optional TTL expires.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rulekit/internal/cachemanager"
	"github.com/zjrosen/rulekit/internal/domain/rulenode"
	"github.com/zjrosen/rulekit/internal/log"
	"github.com/zjrosen/rulekit/internal/metrics"
	"github.com/zjrosen/rulekit/internal/pubsub"
	"github.com/zjrosen/rulekit/internal/tracing"
)

//go:generate mockery --name=DescriptorSource --output=../mocks --outpkg=mocks --with-expecter
//go:generate mockery --name=ResourceLoader --output=../mocks --outpkg=mocks --with-expecter

// DescriptorSource supplies raw component descriptors by category.
type DescriptorSource interface {
	FetchDescriptors(ctx context.Context, types []rulenode.ComponentType) ([]*rulenode.Descriptor, error)
}

// ResourceLoader loads one UI resource. Only success or failure matters.
type ResourceLoader interface {
	Load(ctx context.Context, resourceID string) error
}

// State is the lifecycle of the cached component set.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Event is published when the component set is built, dropped or fails to build.
type Event struct {
	Components int    `json:"components,omitempty"`
	Error      string `json:"error,omitempty"`
}

const componentsKey = "components"

type components = []*rulenode.Descriptor

// Registry caches the component set for one descriptor source.
type Registry struct {
	source  DescriptorSource
	loader  ResourceLoader
	types   []rulenode.ComponentType
	ttl     time.Duration
	tracer  trace.Tracer
	metrics *metrics.Metrics
	events  *pubsub.Broker[Event]

	cache *cachemanager.ReadThroughCache[string, components, []rulenode.ComponentType]
}

// Option configures a Registry.
type Option func(*Registry)

// WithComponentTypes overrides the categories requested from the source.
func WithComponentTypes(types ...rulenode.ComponentType) Option {
	return func(r *Registry) {
		if len(types) > 0 {
			r.types = types
		}
	}
}

// WithTTL bounds the lifetime of the cached set. Zero keeps it until Invalidate.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.ttl = ttl }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(r *Registry) { r.tracer = tracer }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// New creates a registry. loader may be nil, in which case UI resources are
// not preloaded.
func New(source DescriptorSource, loader ResourceLoader, opts ...Option) *Registry {
	r := &Registry{
		source: source,
		loader: loader,
		types:  rulenode.NodeTypes,
		tracer: tracing.Noop().Tracer(),
		events: pubsub.NewBroker[Event](),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.ttl <= 0 {
		r.ttl = cachemanager.NoExpiration
	}

	store := cachemanager.NewInMemoryCacheManager[string, components](
		"components", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval)
	r.cache = cachemanager.NewReadThroughCache[string, components, []rulenode.ComponentType](store, r.load, false)
	return r
}

// GetComponents returns the sorted component set, building it on first use.
// Later calls return the same slice without touching the source. Callers
// must not modify it.
func (r *Registry) GetComponents(ctx context.Context) ([]*rulenode.Descriptor, error) {
	return r.cache.Get(ctx, componentsKey, r.types, r.ttl)
}

// GetByClass returns the first cached descriptor with the given clazz, or an
// unknown placeholder naming it. It never loads; before the set is built
// every class resolves to a placeholder.
func (r *Registry) GetByClass(ctx context.Context, clazz string) *rulenode.Descriptor {
	if cached, ok := r.cache.Peek(ctx, componentsKey); ok {
		for _, d := range cached {
			if d.Clazz == clazz {
				return d
			}
		}
	}
	log.Debug(log.CatRegistry, "unknown rule node class", "clazz", clazz)
	return rulenode.Unknown(clazz)
}

// SupportedLinks returns the descriptor's relation labels keyed by label.
func (r *Registry) SupportedLinks(d *rulenode.Descriptor) map[string]rulenode.Link {
	return rulenode.SupportedLinks(d)
}

// AllowsCustomLinks reports the descriptor's customRelations flag.
func (r *Registry) AllowsCustomLinks(d *rulenode.Descriptor) bool {
	return rulenode.AllowsCustomLinks(d)
}

// State reports whether the set is built, being built, or absent.
func (r *Registry) State(ctx context.Context) State {
	if _, ok := r.cache.Peek(ctx, componentsKey); ok {
		return Ready
	}
	if r.cache.Loading() {
		return Loading
	}
	return Uninitialized
}

// Invalidate drops the cached set so the next GetComponents rebuilds it.
func (r *Registry) Invalidate(ctx context.Context) error {
	if err := r.cache.Invalidate(ctx, componentsKey); err != nil {
		return fmt.Errorf("invalidate components: %w", err)
	}
	log.Info(log.CatRegistry, "component set invalidated")
	r.events.Publish(pubsub.InvalidatedEvent, Event{})
	return nil
}

// Refresh invalidates and rebuilds the set.
func (r *Registry) Refresh(ctx context.Context) ([]*rulenode.Descriptor, error) {
	if err := r.Invalidate(ctx); err != nil {
		return nil, err
	}
	return r.GetComponents(ctx)
}

// Subscribe streams registry events until ctx is done.
func (r *Registry) Subscribe(ctx context.Context) <-chan pubsub.Event[Event] {
	return r.events.Subscribe(ctx)
}

// Close releases event subscribers.
func (r *Registry) Close() {
	r.events.Close()
}

func (r *Registry) load(ctx context.Context, types []rulenode.ComponentType) (components, error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanRegistryLoad,
		trace.WithAttributes(attribute.StringSlice(tracing.AttrComponentTypes, typeNames(types))))
	defer span.End()

	start := time.Now()
	fetched, err := r.source.FetchDescriptors(ctx, types)
	if err != nil {
		tracing.RecordError(span, err)
		log.ErrorErr(log.CatRegistry, "descriptor source fetch failed", err)
		r.count(metrics.ResultError)
		r.events.Publish(pubsub.ErrorEvent, Event{Error: err.Error()})
		return nil, fmt.Errorf("fetch component descriptors: %w", err)
	}

	enriched := iter.Map(fetched, func(d **rulenode.Descriptor) *rulenode.Descriptor {
		return r.enrich(ctx, *d)
	})

	set := make(components, 0, len(enriched)+1)
	for _, d := range enriched {
		if d != nil {
			set = append(set, d)
		}
	}
	set = append(set, rulenode.RuleChainComponent())
	rulenode.Sort(set)

	span.SetAttributes(attribute.Int(tracing.AttrComponentCount, len(set)))
	log.Info(log.CatRegistry, "component set built", "components", len(set), "duration", time.Since(start))
	r.count(metrics.ResultOK)
	if r.metrics != nil {
		r.metrics.RegistryComponents.Set(float64(len(set)))
	}
	r.events.Publish(pubsub.LoadedEvent, Event{Components: len(set)})
	return set, nil
}

// enrich preloads d's UI resources concurrently. A failed load annotates d
// instead of failing the batch.
func (r *Registry) enrich(ctx context.Context, d *rulenode.Descriptor) *rulenode.Descriptor {
	if d == nil || r.loader == nil || !d.HasUIResources() {
		return d
	}

	resources := d.Definition().UIResources
	ctx, span := r.tracer.Start(ctx, tracing.SpanRegistryEnrich, trace.WithAttributes(
		attribute.String(tracing.AttrClazz, d.Clazz),
		attribute.Int(tracing.AttrResourceCount, len(resources)),
	))
	defer span.End()

	p := pool.New().WithErrors().WithContext(ctx)
	for _, id := range resources {
		p.Go(func(ctx context.Context) error {
			if err := r.loader.Load(ctx, id); err != nil {
				return fmt.Errorf("load %s: %w", id, err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		d.Definition().UIResourceLoadError = rulenode.UIResourceLoadError
		span.AddEvent(tracing.EventResourceFailed)
		tracing.RecordError(span, err)
		log.Warn(log.CatRegistry, "ui resources failed", "clazz", d.Clazz, "error", err)
		if r.metrics != nil {
			r.metrics.ResourceFailures.Inc()
		}
	}
	return d
}

func (r *Registry) count(result string) {
	if r.metrics != nil {
		r.metrics.RegistryLoads.WithLabelValues(result).Inc()
	}
}

func typeNames(types []rulenode.ComponentType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
