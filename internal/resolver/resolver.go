// Package resolver materializes the rule chains referenced by a rule
// chain's outbound links. Every referenced id yields exactly one entry:
// the fetched rule chain, or a placeholder carrying only the id when the
// fetch fails.
package resolver

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rulekit/internal/domain/rulechain"
	"github.com/zjrosen/rulekit/internal/infrastructure/rest"
	"github.com/zjrosen/rulekit/internal/log"
	"github.com/zjrosen/rulekit/internal/metrics"
	"github.com/zjrosen/rulekit/internal/tracing"
)

//go:generate mockery --name=EntityFetcher --output=../mocks --outpkg=mocks --with-expecter
//go:generate mockery --name=MetaDataFetcher --output=../mocks --outpkg=mocks --with-expecter

// EntityFetcher loads a single rule chain.
type EntityFetcher interface {
	GetRuleChain(ctx context.Context, id string, config rest.RequestConfig) (*rulechain.RuleChain, error)
}

// MetaDataFetcher loads the node graph of a rule chain.
type MetaDataFetcher interface {
	GetMetaData(ctx context.Context, id string, config rest.RequestConfig) (*rulechain.MetaData, error)
}

// Resolver resolves link references through an EntityFetcher.
type Resolver struct {
	fetcher  EntityFetcher
	metadata MetaDataFetcher
	tracer   trace.Tracer
	metrics  *metrics.Metrics
}

type Option func(*Resolver)

func WithTracer(tracer trace.Tracer) Option {
	return func(r *Resolver) { r.tracer = tracer }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithMetaDataFetcher enables ResolveChain.
func WithMetaDataFetcher(f MetaDataFetcher) Option {
	return func(r *Resolver) { r.metadata = f }
}

func New(fetcher EntityFetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher: fetcher,
		tracer:  tracing.Noop().Tracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveTargets fetches every distinct target of links concurrently and
// maps each target id to its rule chain or placeholder. Individual fetch
// failures never surface; the error is non-nil only if the join panics.
func (r *Resolver) ResolveTargets(ctx context.Context, links []rulechain.LinkReference) (rulechain.ResolvedMap, error) {
	resolved := make(rulechain.ResolvedMap, len(links))
	if len(links) == 0 {
		return resolved, nil
	}

	targets := distinctTargets(links)

	ctx, span := r.tracer.Start(ctx, tracing.SpanResolveTargets, trace.WithAttributes(
		attribute.Int(tracing.AttrLinkCount, len(links)),
		attribute.Int(tracing.AttrTargetCount, len(targets)),
	))
	defer span.End()

	var chains []*rulechain.RuleChain
	recovered := panics.Try(func() {
		chains = iter.Map(targets, func(link *rulechain.LinkReference) *rulechain.RuleChain {
			return r.resolve(ctx, *link)
		})
	})
	if recovered != nil {
		err := fmt.Errorf("resolve targets: %w", recovered.AsError())
		tracing.RecordError(span, err)
		log.ErrorErr(log.CatResolver, "join failed", err)
		return nil, err
	}

	placeholders := 0
	// keyed by the requested id so a mismatched entity id cannot merge entries
	for i, rc := range chains {
		resolved[targets[i].TargetID()] = rc
		if rc.IsPlaceholder() {
			placeholders++
		}
	}

	span.SetAttributes(attribute.Int(tracing.AttrPlaceholders, placeholders))
	log.Debug(log.CatResolver, "targets resolved", "targets", len(resolved), "placeholders", placeholders)
	return resolved, nil
}

// ResolveChain loads a rule chain's metadata and resolves its outbound
// rule chain connections.
func (r *Resolver) ResolveChain(ctx context.Context, ruleChainID string) (rulechain.ResolvedMap, error) {
	if r.metadata == nil {
		return nil, fmt.Errorf("resolve chain %s: no metadata fetcher configured", ruleChainID)
	}

	ctx, span := r.tracer.Start(ctx, tracing.SpanResolveChain,
		trace.WithAttributes(attribute.String(tracing.AttrRuleChainID, ruleChainID)))
	defer span.End()

	md, err := r.metadata.GetMetaData(ctx, ruleChainID, rest.RequestConfig{})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("load metadata for %s: %w", ruleChainID, err)
	}
	return r.ResolveTargets(ctx, md.RuleChainConnections)
}

// resolve fetches one target and maps failure to a placeholder.
func (r *Resolver) resolve(ctx context.Context, link rulechain.LinkReference) *rulechain.RuleChain {
	ctx, span := r.tracer.Start(ctx, tracing.SpanFetchRuleChain,
		trace.WithAttributes(attribute.String(tracing.AttrRuleChainID, link.TargetID())))
	defer span.End()

	rc, err := r.fetcher.GetRuleChain(ctx, link.TargetID(), rest.RequestConfig{IgnoreErrors: true})
	if err != nil || rc == nil {
		// per-item failures are expected and only worth a debug line
		log.Debug(log.CatResolver, "substituting placeholder", "target", link.TargetID(), "error", err)
		span.AddEvent(tracing.EventPlaceholder)
		r.count(metrics.ResultPlaceholder)
		return rulechain.Placeholder(link.TargetID(), link.EntityType())
	}
	r.count(metrics.ResultOK)
	return rc
}

func (r *Resolver) count(result string) {
	if r.metrics != nil {
		r.metrics.ResolverFetches.WithLabelValues(result).Inc()
	}
}

// distinctTargets keeps the first link for each target id.
func distinctTargets(links []rulechain.LinkReference) []rulechain.LinkReference {
	seen := make(map[string]struct{}, len(links))
	out := make([]rulechain.LinkReference, 0, len(links))
	for _, link := range links {
		if _, ok := seen[link.TargetID()]; ok {
			continue
		}
		seen[link.TargetID()] = struct{}{}
		out = append(out, link)
	}
	return out
}
