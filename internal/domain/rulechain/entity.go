// Package rulechain holds the rule chain entity model and the link
// references that connect one rule chain to another.
package rulechain

import "slices"

// EntityType classifies an entity id.
type EntityType string

const (
	EntityRuleChain EntityType = "RULE_CHAIN"
	EntityRuleNode  EntityType = "RULE_NODE"
	EntityTenant    EntityType = "TENANT"
)

// EntityID is a typed entity identity.
type EntityID struct {
	ID         string     `json:"id"`
	EntityType EntityType `json:"entityType"`
}

// RuleChain is a rule chain entity as returned by the server.
type RuleChain struct {
	ID              EntityID       `json:"id"`
	CreatedTime     int64          `json:"createdTime,omitempty"`
	TenantID        *EntityID      `json:"tenantId,omitempty"`
	Name            string         `json:"name,omitempty"`
	FirstRuleNodeID *EntityID      `json:"firstRuleNodeId,omitempty"`
	Root            bool           `json:"root,omitempty"`
	DebugMode       bool           `json:"debugMode,omitempty"`
	Configuration   map[string]any `json:"configuration,omitempty"`
	AdditionalInfo  map[string]any `json:"additionalInfo,omitempty"`

	placeholder bool
}

// Placeholder stands in for a rule chain that could not be fetched.
// Only the id is set. An empty entityType defaults to RULE_CHAIN.
func Placeholder(targetID string, entityType EntityType) *RuleChain {
	if entityType == "" {
		entityType = EntityRuleChain
	}
	return &RuleChain{ID: EntityID{ID: targetID, EntityType: entityType}, placeholder: true}
}

// IsPlaceholder reports whether r was built by Placeholder rather than
// fetched. The mark does not survive JSON encoding.
func (r *RuleChain) IsPlaceholder() bool {
	return r.placeholder
}

// LinkReference is an outbound connection from a node of one rule chain
// to another rule chain.
type LinkReference struct {
	FromIndex         int            `json:"fromIndex"`
	TargetRuleChainID EntityID       `json:"targetRuleChainId"`
	Type              string         `json:"type,omitempty"`
	AdditionalInfo    map[string]any `json:"additionalInfo,omitempty"`
}

// TargetID returns the referenced rule chain id.
func (l LinkReference) TargetID() string {
	return l.TargetRuleChainID.ID
}

// EntityType returns the declared target type, RULE_CHAIN when unset.
func (l LinkReference) EntityType() EntityType {
	if l.TargetRuleChainID.EntityType == "" {
		return EntityRuleChain
	}
	return l.TargetRuleChainID.EntityType
}

// Link builds a reference to targetID.
func Link(targetID string) LinkReference {
	return LinkReference{TargetRuleChainID: EntityID{ID: targetID, EntityType: EntityRuleChain}}
}

// ResolvedMap maps a target id to its rule chain or placeholder.
type ResolvedMap map[string]*RuleChain

// Placeholders returns the ids whose entry is a placeholder, sorted.
func (m ResolvedMap) Placeholders() []string {
	ids := []string{}
	for id, rc := range m {
		if rc.IsPlaceholder() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
