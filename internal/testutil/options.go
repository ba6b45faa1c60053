package testutil

import "github.com/zjrosen/rulekit/internal/domain/rulenode"

// DescriptorOption configures a descriptor built by the Builder.
type DescriptorOption func(*rulenode.Descriptor)

// Name sets the display name.
func Name(name string) DescriptorOption {
	return func(d *rulenode.Descriptor) { d.Name = name }
}

// Details sets the node definition details text.
func Details(details string) DescriptorOption {
	return func(d *rulenode.Descriptor) { d.Definition().Details = details }
}

// Relations sets the declared relation types.
func Relations(labels ...string) DescriptorOption {
	return func(d *rulenode.Descriptor) { d.Definition().RelationTypes = labels }
}

// CustomRelations marks the node as accepting undeclared labels.
func CustomRelations() DescriptorOption {
	return func(d *rulenode.Descriptor) { d.Definition().CustomRelations = true }
}

// UIResources sets the resource ids the configuration form needs.
func UIResources(ids ...string) DescriptorOption {
	return func(d *rulenode.Descriptor) { d.Definition().UIResources = ids }
}

// ID sets the server-side descriptor id.
func ID(id string) DescriptorOption {
	return func(d *rulenode.Descriptor) { d.ID = &rulenode.DescriptorID{ID: id} }
}

// resourceData holds a UI resource to be seeded into a store.
type resourceData struct {
	id          string
	contentType string
	content     string
}

// defaultDescriptor mirrors what a server returns for a bare node.
func defaultDescriptor(typ rulenode.ComponentType, clazz string) *rulenode.Descriptor {
	d := &rulenode.Descriptor{Type: typ, Clazz: clazz, Name: simpleName(clazz)}
	def := d.Definition()
	def.RelationTypes = []string{"Success", "Failure"}
	def.InEnabled = true
	def.OutEnabled = true
	return d
}

func simpleName(clazz string) string {
	for i := len(clazz) - 1; i >= 0; i-- {
		if clazz[i] == '.' {
			return clazz[i+1:]
		}
	}
	return clazz
}
