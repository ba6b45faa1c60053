// Package resources fetches rule-node UI resources over HTTP and keeps them
// in a uiresource.Repository so each resource is downloaded once.
package resources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/zjrosen/rulekit/internal/domain/uiresource"
	"github.com/zjrosen/rulekit/internal/log"
	"github.com/zjrosen/rulekit/internal/tracing"
)

// ErrFetch wraps every download failure.
var ErrFetch = errors.New("fetch ui resource")

const maxResourceSize = 8 << 20

// Loader implements registry.ResourceLoader.
type Loader struct {
	baseURL string
	http    *http.Client
	repo    uiresource.Repository
	tracer  trace.Tracer
	group   singleflight.Group
}

// NewLoader resolves resource ids against baseURL.
func NewLoader(baseURL string, repo uiresource.Repository, client *http.Client, tracer trace.Tracer) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if tracer == nil {
		tracer = tracing.Noop().Tracer()
	}
	return &Loader{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
		repo:    repo,
		tracer:  tracer,
	}
}

// Load makes sure resourceID is stored, downloading it when absent.
// Concurrent loads of one id share a download.
func (l *Loader) Load(ctx context.Context, resourceID string) error {
	_, err := l.Get(ctx, resourceID)
	return err
}

// Get returns the stored resource, downloading it when absent.
func (l *Loader) Get(ctx context.Context, resourceID string) (*uiresource.Resource, error) {
	ctx, span := l.tracer.Start(ctx, tracing.SpanResourceLoad,
		trace.WithAttributes(attribute.String(tracing.AttrResourceID, resourceID)))
	defer span.End()

	res, err := l.repo.Get(ctx, resourceID)
	if err == nil {
		span.AddEvent(tracing.EventCacheHit)
		return res, nil
	}
	if !errors.Is(err, uiresource.ErrNotFound) {
		tracing.RecordError(span, err)
		return nil, err
	}

	// bounded by the HTTP client timeout, not by the first caller
	downloadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(resourceID, func() (any, error) {
		return l.download(downloadCtx, resourceID)
	})

	select {
	case <-ctx.Done():
		tracing.RecordError(span, ctx.Err())
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			tracing.RecordError(span, res.Err)
			return nil, res.Err
		}
		if res.Shared {
			log.Debug(log.CatResources, "shared download", "resource", resourceID)
		}
		return res.Val.(*uiresource.Resource), nil
	}
}

func (l *Loader) download(ctx context.Context, resourceID string) (*uiresource.Resource, error) {
	url := l.resolve(resourceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFetch, resourceID, err)
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFetch, resourceID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %s: status %d", ErrFetch, resourceID, resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxResourceSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFetch, resourceID, err)
	}
	if len(content) > maxResourceSize {
		return nil, fmt.Errorf("%w %s: larger than %d bytes", ErrFetch, resourceID, maxResourceSize)
	}

	res := &uiresource.Resource{
		ID:          resourceID,
		ContentType: resp.Header.Get("Content-Type"),
		Content:     content,
		ETag:        resp.Header.Get("ETag"),
		FetchedAt:   time.Now(),
	}
	if err := l.repo.Save(ctx, res); err != nil {
		return nil, err
	}
	log.Info(log.CatResources, "ui resource stored", "resource", resourceID, "bytes", len(content))
	return res, nil
}

// resolve leaves absolute URLs alone and joins relative ids to baseURL.
func (l *Loader) resolve(resourceID string) string {
	if strings.HasPrefix(resourceID, "http://") || strings.HasPrefix(resourceID, "https://") {
		return resourceID
	}
	return l.baseURL + "/" + strings.TrimLeft(resourceID, "/")
}
