// Package api provides the rulekit HTTP daemon.
// It exposes REST endpoints for component lookup and rule chain resolution
// and SSE streams for registry events and debug logs.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rulekit/internal/domain/rulechain"
	"github.com/zjrosen/rulekit/internal/domain/rulenode"
	"github.com/zjrosen/rulekit/internal/domain/uiresource"
	"github.com/zjrosen/rulekit/internal/infrastructure/rest"
	"github.com/zjrosen/rulekit/internal/log"
	"github.com/zjrosen/rulekit/internal/metrics"
	"github.com/zjrosen/rulekit/internal/presentation"
	"github.com/zjrosen/rulekit/internal/pubsub"
	"github.com/zjrosen/rulekit/internal/registry"
	"github.com/zjrosen/rulekit/internal/tracing"
)

// ComponentRegistry is the registry surface the API serves.
type ComponentRegistry interface {
	GetComponents(ctx context.Context) ([]*rulenode.Descriptor, error)
	GetByClass(ctx context.Context, clazz string) *rulenode.Descriptor
	SupportedLinks(d *rulenode.Descriptor) map[string]rulenode.Link
	AllowsCustomLinks(d *rulenode.Descriptor) bool
	State(ctx context.Context) registry.State
	Refresh(ctx context.Context) ([]*rulenode.Descriptor, error)
	Subscribe(ctx context.Context) <-chan pubsub.Event[registry.Event]
}

// TargetResolver resolves rule chain references.
type TargetResolver interface {
	ResolveTargets(ctx context.Context, links []rulechain.LinkReference) (rulechain.ResolvedMap, error)
	ResolveChain(ctx context.Context, ruleChainID string) (rulechain.ResolvedMap, error)
}

// ResourceStore reads preloaded UI resources.
type ResourceStore interface {
	Get(ctx context.Context, id string) (*uiresource.Resource, error)
	List(ctx context.Context) ([]*uiresource.Resource, error)
}

// Handler provides HTTP endpoints for the registry and resolver.
type Handler struct {
	registry        ComponentRegistry
	resolver        TargetResolver
	resources       ResourceStore
	transportErrors pubsub.Subscriber[error]
	metrics         *metrics.Metrics
	tracer          trace.Tracer
	heartbeat       time.Duration
}

// HandlerConfig configures the API handler.
type HandlerConfig struct {
	// Registry serves component lookups (required).
	Registry ComponentRegistry
	// Resolver serves rule chain resolution (required).
	Resolver TargetResolver
	// Resources serves preloaded UI resources (optional).
	Resources ResourceStore
	// TransportErrors are forwarded on the event stream (optional).
	TransportErrors pubsub.Subscriber[error]
	// Metrics enables /metrics and request metrics (optional).
	Metrics *metrics.Metrics
	// Tracer wraps every request in a server span (optional).
	Tracer trace.Tracer
}

// NewHandler creates a new API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		registry:        cfg.Registry,
		resolver:        cfg.Resolver,
		resources:       cfg.Resources,
		transportErrors: cfg.TransportErrors,
		metrics:         cfg.Metrics,
		tracer:          cfg.Tracer,
		heartbeat:       30 * time.Second,
	}
}

// Routes returns an http.Handler with all API routes registered.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	// Components
	mux.HandleFunc("GET /components", h.ListComponents)
	mux.HandleFunc("GET /components/{clazz}", h.GetComponent)
	mux.HandleFunc("GET /components/{clazz}/links", h.GetLinks)
	mux.HandleFunc("POST /components/refresh", h.RefreshComponents)

	// Rule chains
	mux.HandleFunc("POST /rulechains/resolve", h.ResolveTargets)
	mux.HandleFunc("GET /rulechains/{id}/targets", h.ResolveChain)

	// UI resources
	mux.HandleFunc("GET /resources", h.ListResources)
	mux.HandleFunc("GET /resources/{id...}", h.GetResource)

	// Streaming
	mux.HandleFunc("GET /events", h.StreamEvents)
	mux.HandleFunc("GET /logs", h.StreamLogs)

	mux.HandleFunc("GET /health", h.Health)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}

	var handler http.Handler = mux
	if h.metrics != nil {
		handler = h.metrics.Middleware(handler)
	}
	return tracing.Middleware(h.tracer, handler)
}

// === Request/Response Types ===

// ListComponentsResponse is the response body for listing components.
type ListComponentsResponse struct {
	Components []*rulenode.Descriptor `json:"components"`
	Total      int                    `json:"total"`
}

// ResolveRequest is the request body for resolving targets.
type ResolveRequest struct {
	Links []rulechain.LinkReference `json:"links"`
}

// ResolveResponse is the response body for resolved targets.
type ResolveResponse struct {
	RuleChains     rulechain.ResolvedMap `json:"ruleChains"`
	Placeholders   int                   `json:"placeholders"`
	PlaceholderIDs []string              `json:"placeholderIds"`
}

func newResolveResponse(resolved rulechain.ResolvedMap) ResolveResponse {
	ids := resolved.Placeholders()
	return ResolveResponse{RuleChains: resolved, Placeholders: len(ids), PlaceholderIDs: ids}
}

// ResourceInfo describes one stored UI resource.
type ResourceInfo struct {
	ID          string    `json:"id"`
	ContentType string    `json:"contentType"`
	Size        int       `json:"size"`
	ETag        string    `json:"etag,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// ListResourcesResponse is the response body for listing UI resources.
type ListResourcesResponse struct {
	Resources []ResourceInfo `json:"resources"`
	Total     int            `json:"total"`
}

// HealthResponse is the response body for the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Registry string `json:"registry"`
}

// ErrorResponse is the response body for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// === Handlers ===

// ListComponents returns the sorted component set.
// GET /components
func (h *Handler) ListComponents(w http.ResponseWriter, r *http.Request) {
	components, err := h.registry.GetComponents(r.Context())
	if err != nil {
		h.writeSourceError(w, "Failed to load components", err)
		return
	}

	h.writeJSON(w, http.StatusOK, ListComponentsResponse{
		Components: components,
		Total:      len(components),
	})
}

// GetComponent returns the descriptor for a class, or the unknown placeholder.
// GET /components/{clazz}
func (h *Handler) GetComponent(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, d)
}

// GetLinks returns the supported links of a class.
// GET /components/{clazz}/links
func (h *Handler) GetLinks(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK,
		presentation.FromLinks(d.Clazz, h.registry.SupportedLinks(d), h.registry.AllowsCustomLinks(d)))
}

// lookup builds the component set if needed, then resolves the {clazz}
// path value. It writes the error response and reports false on failure.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*rulenode.Descriptor, bool) {
	if _, err := h.registry.GetComponents(r.Context()); err != nil {
		h.writeSourceError(w, "Failed to load components", err)
		return nil, false
	}
	return h.registry.GetByClass(r.Context(), r.PathValue("clazz")), true
}

// RefreshComponents drops the cached set and rebuilds it.
// POST /components/refresh
func (h *Handler) RefreshComponents(w http.ResponseWriter, r *http.Request) {
	components, err := h.registry.Refresh(r.Context())
	if err != nil {
		h.writeSourceError(w, "Failed to refresh components", err)
		return
	}

	h.writeJSON(w, http.StatusOK, ListComponentsResponse{
		Components: components,
		Total:      len(components),
	})
}

// ResolveTargets resolves every link in the body.
// POST /rulechains/resolve
func (h *Handler) ResolveTargets(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body", err.Error())
		return
	}
	for i, link := range req.Links {
		if link.TargetID() == "" {
			h.writeError(w, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("links[%d].targetRuleChainId.id is required", i), "")
			return
		}
	}

	resolved, err := h.resolver.ResolveTargets(r.Context(), req.Links)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "resolve_failed", "Failed to resolve targets", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, newResolveResponse(resolved))
}

// ResolveChain resolves the rule chain connections of a stored chain.
// GET /rulechains/{id}/targets
func (h *Handler) ResolveChain(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	resolved, err := h.resolver.ResolveChain(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, rest.ErrInvalidID):
			h.writeError(w, http.StatusBadRequest, "invalid_id", "Invalid rule chain id", err.Error())
		case errors.Is(err, rest.ErrNotFound):
			h.writeError(w, http.StatusNotFound, "not_found", "Rule chain not found", "")
		default:
			h.writeSourceError(w, "Failed to resolve rule chain", err)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, newResolveResponse(resolved))
}

// ListResources describes every stored UI resource.
// GET /resources
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	if h.resources == nil {
		h.writeJSON(w, http.StatusOK, ListResourcesResponse{Resources: []ResourceInfo{}})
		return
	}

	stored, err := h.resources.List(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "list_failed", "Failed to list resources", err.Error())
		return
	}

	resp := ListResourcesResponse{Resources: make([]ResourceInfo, 0, len(stored)), Total: len(stored)}
	for _, res := range stored {
		resp.Resources = append(resp.Resources, ResourceInfo{
			ID:          res.ID,
			ContentType: res.ContentType,
			Size:        res.Size(),
			ETag:        res.ETag,
			FetchedAt:   res.FetchedAt,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GetResource serves the stored bytes of a UI resource.
// GET /resources/{id...}
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	if h.resources == nil {
		h.writeError(w, http.StatusNotFound, "not_found", "Resource preloading is disabled", "")
		return
	}

	res, err := h.resources.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, uiresource.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "not_found", "Resource not found", "")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "get_failed", "Failed to get resource", err.Error())
		return
	}

	if res.ETag != "" {
		w.Header().Set("ETag", res.ETag)
		if r.Header.Get("If-None-Match") == res.ETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	contentType := res.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(res.Size()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Content)
}

// StreamEvents streams registry events and surfaced transport errors via SSE.
// GET /events
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	events := h.registry.Subscribe(ctx)
	var transportErrors <-chan pubsub.Event[error]
	if h.transportErrors != nil {
		transportErrors = h.transportErrors.Subscribe(ctx)
	}

	out := make(chan sseEvent)
	go func() {
		defer close(out)
		for {
			var next sseEvent
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				next = sseEvent{name: string(event.Type), data: map[string]any{
					"timestamp": event.Timestamp,
					"payload":   event.Payload,
				}}
			case event, ok := <-transportErrors:
				if !ok {
					transportErrors = nil
					continue
				}
				next = sseEvent{name: "transport_error", data: map[string]any{
					"timestamp": event.Timestamp,
					"error":     event.Payload.Error(),
				}}
			}
			select {
			case out <- next:
			case <-ctx.Done():
				return
			}
		}
	}()

	h.streamEvents(w, r, out)
}

// StreamLogs streams debug log entries via SSE.
// GET /logs
func (h *Handler) StreamLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entries := log.Subscribe(ctx)
	if entries == nil {
		h.writeError(w, http.StatusServiceUnavailable, "logging_disabled", "Debug logging is not enabled", "start with --debug")
		return
	}

	out := make(chan sseEvent)
	go func() {
		defer close(out)
		for entry := range entries {
			select {
			case out <- sseEvent{name: string(entry.Type), data: map[string]any{"line": entry.Payload}}:
			case <-ctx.Done():
				return
			}
		}
	}()

	h.streamEvents(w, r, out)
}

// Health reports daemon status and registry state.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Registry: h.registry.State(r.Context()).String(),
	})
}

// === Helpers ===

type sseEvent struct {
	name string
	data any
}

func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request, events <-chan sseEvent) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "streaming_unsupported", "Streaming not supported", "")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	_, _ = fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		case event, ok := <-events:
			if !ok {
				return
			}

			data, err := json.Marshal(event.data)
			if err != nil {
				log.Error(log.CatAPI, "Failed to marshal event", "error", err)
				continue
			}

			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.name, data)
			flusher.Flush()
		}
	}
}

func (h *Handler) writeSourceError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, rest.ErrSourceUnavailable) {
		h.writeError(w, http.StatusBadGateway, "source_unavailable", message, err.Error())
		return
	}
	h.writeError(w, http.StatusInternalServerError, "internal_error", message, err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error(log.CatAPI, "Failed to encode JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
