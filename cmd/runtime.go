package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zjrosen/rulekit/internal/config"
	"github.com/zjrosen/rulekit/internal/domain/uiresource"
	"github.com/zjrosen/rulekit/internal/flags"
	"github.com/zjrosen/rulekit/internal/infrastructure/catalog"
	"github.com/zjrosen/rulekit/internal/infrastructure/resources"
	"github.com/zjrosen/rulekit/internal/infrastructure/rest"
	"github.com/zjrosen/rulekit/internal/infrastructure/sqlite"
	"github.com/zjrosen/rulekit/internal/log"
	"github.com/zjrosen/rulekit/internal/metrics"
	"github.com/zjrosen/rulekit/internal/registry"
	"github.com/zjrosen/rulekit/internal/resolver"
	"github.com/zjrosen/rulekit/internal/tracing"
)

// runtime holds the wired services for one command invocation.
type runtime struct {
	flags      *flags.Registry
	tracing    *tracing.Provider
	metrics    *metrics.Metrics
	transport  *rest.HTTPTransport
	ruleChains *rest.RuleChainClient
	db         *sqlite.DB
	resources  uiresource.Repository
	registry   *registry.Registry
	resolver   *resolver.Resolver
}

// newRuntime wires transport, stores, registry and resolver from cfg.
func newRuntime(cfg config.Config) (*runtime, error) {
	rt := &runtime{metrics: metrics.New(), flags: flags.New(cfg.Flags)}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("creating tracer: %w", err)
	}
	rt.tracing = provider
	tracer := provider.Tracer()

	rt.transport = rest.NewHTTPTransport(rest.Config{
		BaseURL: cfg.Server.URL,
		Token:   cfg.Server.Token,
		Timeout: cfg.Server.Timeout,
	}, tracer)
	rt.ruleChains = rest.NewRuleChainClient(rt.transport)

	var source registry.DescriptorSource
	if cfg.Registry.CatalogFile != "" {
		log.Info(log.CatConfig, "using descriptor catalog", "path", cfg.Registry.CatalogFile)
		source = catalog.NewSource(cfg.Registry.CatalogFile)
	} else {
		source = rest.NewComponentDescriptorClient(rt.transport)
	}

	var loader registry.ResourceLoader
	if cfg.Resources.DBPath != "" && !rt.flags.Enabled(flags.FlagSkipUIResources) {
		db, err := sqlite.NewDB(cfg.Resources.DBPath)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("opening resource store: %w", err)
		}
		rt.db = db
		rt.resources = db.UIResourceRepository()
		httpClient := &http.Client{Timeout: cfg.Server.Timeout}
		loader = resources.NewLoader(cfg.ResourceBaseURL(), rt.resources, httpClient, tracer)
	}

	types, err := cfg.ComponentTypes()
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.registry = registry.New(source, loader,
		registry.WithComponentTypes(types...),
		registry.WithTTL(cfg.Registry.CacheTTL),
		registry.WithTracer(tracer),
		registry.WithMetrics(rt.metrics),
	)
	rt.resolver = resolver.New(rt.ruleChains,
		resolver.WithMetaDataFetcher(rt.ruleChains),
		resolver.WithTracer(tracer),
		resolver.WithMetrics(rt.metrics),
	)
	return rt, nil
}

// Close releases everything newRuntime opened.
func (rt *runtime) Close() {
	if rt.registry != nil {
		rt.registry.Close()
	}
	if rt.transport != nil {
		rt.transport.Close()
	}
	var errs []error
	if rt.db != nil {
		errs = append(errs, rt.db.Close())
	}
	if rt.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, rt.tracing.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		log.ErrorErr(log.CatConfig, "shutdown", err)
	}
}
