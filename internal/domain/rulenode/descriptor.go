package rulenode

import (
	"maps"
	"slices"
	"strings"
)

// ComponentType is the category tag of a descriptor.
type ComponentType string

const (
	TypeEnrichment     ComponentType = "ENRICHMENT"
	TypeFilter         ComponentType = "FILTER"
	TypeTransformation ComponentType = "TRANSFORMATION"
	TypeAction         ComponentType = "ACTION"
	TypeExternal       ComponentType = "EXTERNAL"
	TypeRuleChain      ComponentType = "RULE_CHAIN"
	TypeUnknown        ComponentType = "UNKNOWN"
)

// NodeTypes are the categories requested from a descriptor source.
var NodeTypes = []ComponentType{
	TypeEnrichment,
	TypeFilter,
	TypeTransformation,
	TypeAction,
	TypeExternal,
}

// ParseComponentType accepts a category tag in any case.
func ParseComponentType(s string) (ComponentType, bool) {
	for _, t := range slices.Concat(NodeTypes, []ComponentType{TypeRuleChain, TypeUnknown}) {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

const (
	RuleChainClazz = "tb.internal.RuleChain"
	UnknownClazz   = "tb.internal.Unknown"
)

// UIResourceLoadError annotates a descriptor whose UI resources failed to load.
const UIResourceLoadError = "Failed to load UI resources."

// DescriptorID is the server-side identity of a descriptor.
type DescriptorID struct {
	ID string `json:"id" yaml:"id"`
}

// Descriptor describes one rule-node component type.
type Descriptor struct {
	ID                      *DescriptorID           `json:"id,omitempty" yaml:"id,omitempty"`
	Type                    ComponentType           `json:"type" yaml:"type"`
	Scope                   string                  `json:"scope,omitempty" yaml:"scope,omitempty"`
	Name                    string                  `json:"name" yaml:"name"`
	Clazz                   string                  `json:"clazz" yaml:"clazz"`
	ConfigurationDescriptor ConfigurationDescriptor `json:"configurationDescriptor" yaml:"configurationDescriptor"`
	Actions                 string                  `json:"actions,omitempty" yaml:"actions,omitempty"`
}

type ConfigurationDescriptor struct {
	NodeDefinition NodeDefinition `json:"nodeDefinition" yaml:"nodeDefinition"`
}

// NodeDefinition is the node's editor-facing definition. UIResourceLoadError
// is the only field changed after a descriptor is cached.
type NodeDefinition struct {
	Details              string         `json:"details,omitempty" yaml:"details,omitempty"`
	Description          string         `json:"description,omitempty" yaml:"description,omitempty"`
	InEnabled            bool           `json:"inEnabled" yaml:"inEnabled"`
	OutEnabled           bool           `json:"outEnabled" yaml:"outEnabled"`
	RelationTypes        []string       `json:"relationTypes" yaml:"relationTypes"`
	CustomRelations      bool           `json:"customRelations" yaml:"customRelations"`
	DefaultConfiguration map[string]any `json:"defaultConfiguration,omitempty" yaml:"defaultConfiguration,omitempty"`
	UIResources          []string       `json:"uiResources,omitempty" yaml:"uiResources,omitempty"`
	ConfigDirective      string         `json:"configDirective,omitempty" yaml:"configDirective,omitempty"`
	Icon                 string         `json:"icon,omitempty" yaml:"icon,omitempty"`
	IconURL              string         `json:"iconUrl,omitempty" yaml:"iconUrl,omitempty"`
	DocURL               string         `json:"docUrl,omitempty" yaml:"docUrl,omitempty"`
	UIResourceLoadError  string         `json:"uiResourceLoadError,omitempty" yaml:"-"`
}

// Definition is shorthand for d.ConfigurationDescriptor.NodeDefinition.
func (d *Descriptor) Definition() *NodeDefinition {
	return &d.ConfigurationDescriptor.NodeDefinition
}

// HasUIResources reports whether the node declares resources to preload.
func (d *Descriptor) HasUIResources() bool {
	return len(d.ConfigurationDescriptor.NodeDefinition.UIResources) > 0
}

// Clone returns a deep copy.
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	c := *d
	if d.ID != nil {
		id := *d.ID
		c.ID = &id
	}
	def := &c.ConfigurationDescriptor.NodeDefinition
	def.RelationTypes = cloneStrings(def.RelationTypes)
	def.UIResources = cloneStrings(def.UIResources)
	def.DefaultConfiguration = cloneMap(def.DefaultConfiguration)
	return &c
}

// RuleChainComponent returns the synthetic descriptor for forwarding
// messages into another rule chain.
func RuleChainComponent() *Descriptor {
	return &Descriptor{
		Type:  TypeRuleChain,
		Name:  "rule chain",
		Clazz: RuleChainClazz,
		ConfigurationDescriptor: ConfigurationDescriptor{
			NodeDefinition: NodeDefinition{
				Description:   "",
				Details:       "Forwards incoming messages to specified Rule Chain",
				InEnabled:     true,
				OutEnabled:    false,
				RelationTypes: []string{},
			},
		},
	}
}

// UnknownComponent returns the template used for unresolved classes.
func UnknownComponent() *Descriptor {
	return &Descriptor{
		Type:  TypeUnknown,
		Name:  "unknown",
		Clazz: UnknownClazz,
		ConfigurationDescriptor: ConfigurationDescriptor{
			NodeDefinition: NodeDefinition{
				Details:       "",
				InEnabled:     true,
				OutEnabled:    true,
				RelationTypes: []string{},
			},
		},
	}
}

// Unknown builds a placeholder descriptor naming clazz.
func Unknown(clazz string) *Descriptor {
	d := UnknownComponent().Clone()
	d.Clazz = clazz
	d.Definition().Details = "Unknown Rule Node class: " + clazz
	return d
}

// IsSynthetic reports whether d was built locally rather than discovered.
func (d *Descriptor) IsSynthetic() bool {
	return d.Type == TypeRuleChain || d.Type == TypeUnknown
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := maps.Clone(m)
	for k, v := range out {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
