package rulenode

// Link is an outbound relation label offered to the editor.
type Link struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SupportedLinks keys the descriptor's relation types by label; each label
// is both the link's name and value.
func SupportedLinks(d *Descriptor) map[string]Link {
	relationTypes := d.ConfigurationDescriptor.NodeDefinition.RelationTypes
	links := make(map[string]Link, len(relationTypes))
	for _, label := range relationTypes {
		links[label] = Link{Name: label, Value: label}
	}
	return links
}

// AllowsCustomLinks reports whether the node accepts labels beyond its
// declared relation types.
func AllowsCustomLinks(d *Descriptor) bool {
	return d.ConfigurationDescriptor.NodeDefinition.CustomRelations
}
