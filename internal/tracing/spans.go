package tracing

// Span names.
const (
	SpanRegistryLoad    = "registry.load"
	SpanRegistryEnrich  = "registry.enrich"
	SpanResourceLoad    = "resources.load"
	SpanResolveTargets  = "resolver.resolve_targets"
	SpanResolveChain    = "resolver.resolve_chain"
	SpanFetchRuleChain  = "resolver.fetch"
	SpanPrefixHTTP      = "http."
	SpanPrefixTransport = "rest."
)

// Span attribute keys.
const (
	AttrComponentTypes = "registry.component_types"
	AttrComponentCount = "registry.component_count"
	AttrClazz          = "component.clazz"
	AttrResourceID     = "resource.id"
	AttrResourceCount  = "resource.count"
	AttrLinkCount      = "resolver.link_count"
	AttrTargetCount    = "resolver.target_count"
	AttrPlaceholders   = "resolver.placeholder_count"
	AttrRuleChainID    = "rulechain.id"
	AttrHTTPMethod     = "http.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatus     = "http.status_code"
	AttrErrorMessage   = "error.message"
)

// Span event names.
const (
	EventCacheHit       = "cache.hit"
	EventResourceFailed = "resource.failed"
	EventPlaceholder    = "placeholder.substituted"
)
