package rest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zjrosen/rulekit/internal/domain/rulechain"
)

// RuleChainClient covers the rule chain endpoints.
type RuleChainClient struct {
	transport Transport
}

func NewRuleChainClient(t Transport) *RuleChainClient {
	return &RuleChainClient{transport: t}
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidID, id, err)
	}
	return nil
}

// ListRuleChains returns one page of the tenant's rule chains.
func (c *RuleChainClient) ListRuleChains(ctx context.Context, page rulechain.PageLink, cfg RequestConfig) (*rulechain.PageData[rulechain.RuleChain], error) {
	var data rulechain.PageData[rulechain.RuleChain]
	if err := c.transport.Get(ctx, "/api/ruleChains?"+page.Query(), &data, cfg); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *RuleChainClient) GetRuleChain(ctx context.Context, id string, cfg RequestConfig) (*rulechain.RuleChain, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var rc rulechain.RuleChain
	if err := c.transport.Get(ctx, "/api/ruleChain/"+id, &rc, cfg); err != nil {
		return nil, err
	}
	return &rc, nil
}

// SaveRuleChain creates or updates rc and returns the stored entity.
func (c *RuleChainClient) SaveRuleChain(ctx context.Context, rc *rulechain.RuleChain) (*rulechain.RuleChain, error) {
	var saved rulechain.RuleChain
	if err := c.transport.Post(ctx, "/api/ruleChain", rc, &saved, RequestConfig{}); err != nil {
		return nil, err
	}
	return &saved, nil
}

// SetRootRuleChain makes id the tenant's root rule chain.
func (c *RuleChainClient) SetRootRuleChain(ctx context.Context, id string) (*rulechain.RuleChain, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var rc rulechain.RuleChain
	if err := c.transport.Post(ctx, "/api/ruleChain/"+id+"/root", nil, &rc, RequestConfig{}); err != nil {
		return nil, err
	}
	return &rc, nil
}

func (c *RuleChainClient) DeleteRuleChain(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	return c.transport.Delete(ctx, "/api/ruleChain/"+id, RequestConfig{})
}

func (c *RuleChainClient) GetMetaData(ctx context.Context, id string, cfg RequestConfig) (*rulechain.MetaData, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var md rulechain.MetaData
	if err := c.transport.Get(ctx, "/api/ruleChain/"+id+"/metadata", &md, cfg); err != nil {
		return nil, err
	}
	return &md, nil
}

func (c *RuleChainClient) SaveMetaData(ctx context.Context, md *rulechain.MetaData) (*rulechain.MetaData, error) {
	var saved rulechain.MetaData
	if err := c.transport.Post(ctx, "/api/ruleChain/metadata", md, &saved, RequestConfig{}); err != nil {
		return nil, err
	}
	return &saved, nil
}

// TestScript evaluates a node script on the server.
func (c *RuleChainClient) TestScript(ctx context.Context, input map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.transport.Post(ctx, "/api/ruleChain/testScript", input, &out, RequestConfig{}); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestDebugInput returns the last message a rule node received in debug mode.
func (c *RuleChainClient) LatestDebugInput(ctx context.Context, ruleNodeID string) (map[string]any, error) {
	if err := validID(ruleNodeID); err != nil {
		return nil, err
	}
	var out map[string]any
	if err := c.transport.Get(ctx, "/api/ruleNode/"+ruleNodeID+"/debugIn", &out, RequestConfig{}); err != nil {
		return nil, err
	}
	return out, nil
}
