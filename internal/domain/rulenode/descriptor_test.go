package rulenode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRuleChainComponent(t *testing.T) {
	d := RuleChainComponent()

	require.Equal(t, TypeRuleChain, d.Type)
	require.Equal(t, "rule chain", d.Name)
	require.Equal(t, RuleChainClazz, d.Clazz)
	require.True(t, d.Definition().InEnabled)
	require.False(t, d.Definition().OutEnabled)
	require.Empty(t, d.Definition().RelationTypes)
	require.True(t, d.IsSynthetic())
}

func TestRuleChainComponent_ReturnsFreshValue(t *testing.T) {
	a := RuleChainComponent()
	a.Name = "changed"

	require.Equal(t, "rule chain", RuleChainComponent().Name)
}

func TestUnknown(t *testing.T) {
	d := Unknown("unknown.Class")

	require.Equal(t, "unknown.Class", d.Clazz)
	require.Equal(t, TypeUnknown, d.Type)
	require.Contains(t, d.Definition().Details, "unknown.Class")
	require.Equal(t, "Unknown Rule Node class: unknown.Class", d.Definition().Details)

	// the template is untouched
	require.Equal(t, UnknownClazz, UnknownComponent().Clazz)
	require.Empty(t, UnknownComponent().Definition().Details)
}

func TestDescriptor_CloneIsDeep(t *testing.T) {
	original := &Descriptor{
		ID:    &DescriptorID{ID: "a6f1"},
		Type:  TypeAction,
		Name:  "log",
		Clazz: "org.example.LogNode",
		ConfigurationDescriptor: ConfigurationDescriptor{
			NodeDefinition: NodeDefinition{
				RelationTypes: []string{"Success", "Failure"},
				UIResources:   []string{"static/log.js"},
				DefaultConfiguration: map[string]any{
					"script": "return msg;",
					"nested": map[string]any{"keys": []any{"a", "b"}},
				},
			},
		},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.ID.ID = "other"
	clone.Definition().RelationTypes[0] = "True"
	clone.Definition().UIResources[0] = "other.js"
	clone.Definition().DefaultConfiguration["nested"].(map[string]any)["keys"].([]any)[0] = "z"

	require.Equal(t, "a6f1", original.ID.ID)
	require.Equal(t, "Success", original.Definition().RelationTypes[0])
	require.Equal(t, "static/log.js", original.Definition().UIResources[0])
	require.Equal(t, "a", original.Definition().DefaultConfiguration["nested"].(map[string]any)["keys"].([]any)[0])
}

func TestDescriptor_CloneNil(t *testing.T) {
	var d *Descriptor
	require.Nil(t, d.Clone())
}

func TestDescriptor_HasUIResources(t *testing.T) {
	d := &Descriptor{}
	require.False(t, d.HasUIResources())

	d.Definition().UIResources = []string{"a.js"}
	require.True(t, d.HasUIResources())
}

func TestParseComponentType(t *testing.T) {
	tests := []struct {
		in   string
		want ComponentType
		ok   bool
	}{
		{"FILTER", TypeFilter, true},
		{"filter", TypeFilter, true},
		{"Rule_Chain", TypeRuleChain, true},
		{"external", TypeExternal, true},
		{"bogus", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseComponentType(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
