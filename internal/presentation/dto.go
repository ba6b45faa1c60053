package presentation

import (
	"slices"
	"strings"

	"github.com/zjrosen/rulekit/internal/domain/rulechain"
	"github.com/zjrosen/rulekit/internal/domain/rulenode"
)

// ComponentDTO is the compact listing form of a descriptor.
type ComponentDTO struct {
	Type                string   `json:"type"`
	Name                string   `json:"name"`
	Clazz               string   `json:"clazz"`
	Details             string   `json:"details,omitempty"`
	RelationTypes       []string `json:"relationTypes"`
	CustomRelations     bool     `json:"customRelations"`
	UIResources         int      `json:"uiResources,omitempty"`
	UIResourceLoadError string   `json:"uiResourceLoadError,omitempty"`
}

// LinksDTO lists a descriptor's supported links ordered by name.
type LinksDTO struct {
	Clazz       string          `json:"clazz"`
	Links       []rulenode.Link `json:"links"`
	AllowCustom bool            `json:"allowCustom"`
}

// ResolvedDTO is one entry of a resolved target map.
type ResolvedDTO struct {
	ID          string `json:"id"`
	EntityType  string `json:"entityType"`
	Name        string `json:"name,omitempty"`
	Root        bool   `json:"root,omitempty"`
	Placeholder bool   `json:"placeholder"`
}

// FromDescriptor converts a descriptor to its listing form.
func FromDescriptor(d *rulenode.Descriptor) ComponentDTO {
	def := d.Definition()
	relationTypes := def.RelationTypes
	if relationTypes == nil {
		relationTypes = []string{}
	}
	return ComponentDTO{
		Type:                string(d.Type),
		Name:                d.Name,
		Clazz:               d.Clazz,
		Details:             def.Details,
		RelationTypes:       relationTypes,
		CustomRelations:     def.CustomRelations,
		UIResources:         len(def.UIResources),
		UIResourceLoadError: def.UIResourceLoadError,
	}
}

// FromDescriptors converts a component list, keeping its order.
func FromDescriptors(ds []*rulenode.Descriptor) []ComponentDTO {
	dtos := make([]ComponentDTO, len(ds))
	for i, d := range ds {
		dtos[i] = FromDescriptor(d)
	}
	return dtos
}

// FromLinks flattens a supported-links map.
func FromLinks(clazz string, links map[string]rulenode.Link, allowCustom bool) LinksDTO {
	out := make([]rulenode.Link, 0, len(links))
	for _, l := range links {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b rulenode.Link) int { return strings.Compare(a.Name, b.Name) })
	return LinksDTO{Clazz: clazz, Links: out, AllowCustom: allowCustom}
}

// FromResolvedMap flattens a resolved map ordered by id.
func FromResolvedMap(m rulechain.ResolvedMap) []ResolvedDTO {
	dtos := make([]ResolvedDTO, 0, len(m))
	for id, rc := range m {
		dtos = append(dtos, ResolvedDTO{
			ID:          id,
			EntityType:  string(rc.ID.EntityType),
			Name:        rc.Name,
			Root:        rc.Root,
			Placeholder: rc.IsPlaceholder(),
		})
	}
	slices.SortFunc(dtos, func(a, b ResolvedDTO) int { return strings.Compare(a.ID, b.ID) })
	return dtos
}
