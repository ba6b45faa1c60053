package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rulekit/internal/domain/rulenode"
)

const filtersYAML = `
components:
  - type: FILTER
    name: script
    clazz: org.example.rule.engine.filter.TbJsFilterNode
    configurationDescriptor:
      nodeDefinition:
        relationTypes: ["True", "False"]
        customRelations: false
        inEnabled: true
        outEnabled: true
        uiResources: ["static/rulenode/filter.js"]
  - type: filter
    clazz: org.example.rule.engine.filter.TbCheckMessageNode
`

const actionsYAML = `
components:
  - type: ACTION
    name: log
    clazz: org.example.rule.engine.action.TbLogNode
    configurationDescriptor:
      nodeDefinition:
        relationTypes: ["Success", "Failure"]
        customRelations: true
`

func TestSource_FetchDescriptors(t *testing.T) {
	tests := []struct {
		name        string
		files       fstest.MapFS
		root        string
		types       []rulenode.ComponentType
		wantClasses []string
		errContains string
	}{
		{
			name:  "single file",
			files: fstest.MapFS{"catalog.yaml": {Data: []byte(filtersYAML)}},
			root:  "catalog.yaml",
			types: rulenode.NodeTypes,
			wantClasses: []string{
				"org.example.rule.engine.filter.TbJsFilterNode",
				"org.example.rule.engine.filter.TbCheckMessageNode",
			},
		},
		{
			name: "directory merges files",
			files: fstest.MapFS{
				"catalog/filters.yaml":       {Data: []byte(filtersYAML)},
				"catalog/nested/actions.yml": {Data: []byte(actionsYAML)},
				"catalog/README.md":          {Data: []byte("ignored")},
			},
			root:  "catalog",
			types: rulenode.NodeTypes,
			wantClasses: []string{
				"org.example.rule.engine.filter.TbJsFilterNode",
				"org.example.rule.engine.filter.TbCheckMessageNode",
				"org.example.rule.engine.action.TbLogNode",
			},
		},
		{
			name: "filters by type",
			files: fstest.MapFS{
				"catalog/filters.yaml": {Data: []byte(filtersYAML)},
				"catalog/actions.yaml": {Data: []byte(actionsYAML)},
			},
			root:        "catalog",
			types:       []rulenode.ComponentType{rulenode.TypeAction},
			wantClasses: []string{"org.example.rule.engine.action.TbLogNode"},
		},
		{
			name:        "empty catalog",
			files:       fstest.MapFS{"catalog.yaml": {Data: []byte("components: []\n")}},
			root:        "catalog.yaml",
			types:       rulenode.NodeTypes,
			errContains: "no components",
		},
		{
			name:        "invalid yaml",
			files:       fstest.MapFS{"catalog.yaml": {Data: []byte("components: [\n")}},
			root:        "catalog.yaml",
			types:       rulenode.NodeTypes,
			errContains: "parse catalog.yaml",
		},
		{
			name:        "missing clazz",
			files:       fstest.MapFS{"catalog.yaml": {Data: []byte("components:\n  - type: FILTER\n")}},
			root:        "catalog.yaml",
			types:       rulenode.NodeTypes,
			errContains: "missing clazz",
		},
		{
			name:        "synthetic type rejected",
			files:       fstest.MapFS{"catalog.yaml": {Data: []byte("components:\n  - type: RULE_CHAIN\n    clazz: a.B\n")}},
			root:        "catalog.yaml",
			types:       rulenode.NodeTypes,
			errContains: `invalid type "RULE_CHAIN"`,
		},
		{
			name: "duplicate clazz across files",
			files: fstest.MapFS{
				"catalog/a.yaml": {Data: []byte(actionsYAML)},
				"catalog/b.yaml": {Data: []byte(actionsYAML)},
			},
			root:        "catalog",
			types:       rulenode.NodeTypes,
			errContains: "already defined in catalog/a.yaml",
		},
		{
			name:        "missing root",
			files:       fstest.MapFS{},
			root:        "catalog.yaml",
			types:       rulenode.NodeTypes,
			errContains: "scan catalog catalog.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewFSSource(tt.files, tt.root)
			got, err := src.FetchDescriptors(context.Background(), tt.types)
			if tt.errContains != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)

			classes := make([]string, 0, len(got))
			for _, d := range got {
				classes = append(classes, d.Clazz)
			}
			require.ElementsMatch(t, tt.wantClasses, classes)
		})
	}
}

func TestSource_NormalizesDescriptors(t *testing.T) {
	src := NewFSSource(fstest.MapFS{"catalog.yaml": {Data: []byte(filtersYAML)}}, "catalog.yaml")

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	script := got[0]
	require.Equal(t, rulenode.TypeFilter, script.Type)
	require.Equal(t, []string{"True", "False"}, script.Definition().RelationTypes)
	require.True(t, script.HasUIResources())

	check := got[1]
	require.Equal(t, rulenode.TypeFilter, check.Type, "type is case-insensitive")
	require.Equal(t, "TbCheckMessageNode", check.Name, "name defaults to the simple class name")
	require.NotNil(t, check.Definition().RelationTypes)
	require.Empty(t, check.Definition().RelationTypes)
}

func TestSource_CancelledContext(t *testing.T) {
	src := NewFSSource(fstest.MapFS{"catalog.yaml": {Data: []byte(actionsYAML)}}, "catalog.yaml")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.FetchDescriptors(ctx, rulenode.NodeTypes)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewSource_ReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(actionsYAML), 0o600))

	src := NewSource(path)
	got, err := src.FetchDescriptors(context.Background(), rulenode.NodeTypes)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Re-read picks up edits without a new Source.
	require.NoError(t, os.WriteFile(path, []byte(filtersYAML), 0o600))
	got, err = src.FetchDescriptors(context.Background(), rulenode.NodeTypes)
	require.NoError(t, err)
	require.Len(t, got, 2)
}
