package rest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zjrosen/rulekit/internal/domain/rulenode"
)

// ComponentDescriptorClient reads component descriptors.
type ComponentDescriptorClient struct {
	transport Transport
}

func NewComponentDescriptorClient(t Transport) *ComponentDescriptorClient {
	return &ComponentDescriptorClient{transport: t}
}

// FetchDescriptors returns every descriptor of the given categories. Any
// failure wraps ErrSourceUnavailable.
func (c *ComponentDescriptorClient) FetchDescriptors(ctx context.Context, types []rulenode.ComponentType) ([]*rulenode.Descriptor, error) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	path := "/api/components?componentTypes=" + url.QueryEscape(strings.Join(names, ","))

	var descriptors []*rulenode.Descriptor
	if err := c.transport.Get(ctx, path, &descriptors, RequestConfig{}); err != nil {
		if errors.Is(err, ErrSourceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return descriptors, nil
}

// GetDescriptor returns the descriptor for one class.
func (c *ComponentDescriptorClient) GetDescriptor(ctx context.Context, clazz string) (*rulenode.Descriptor, error) {
	var d rulenode.Descriptor
	if err := c.transport.Get(ctx, "/api/component/"+url.PathEscape(clazz), &d, RequestConfig{}); err != nil {
		return nil, err
	}
	return &d, nil
}
