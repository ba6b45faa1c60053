package templates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rulekit/internal/domain/rulenode"
	"github.com/zjrosen/rulekit/internal/infrastructure/catalog"
)

func TestStarterCatalog_LoadsAsCatalog(t *testing.T) {
	source := catalog.NewFSSource(StarterFS(), StarterCatalogPath)

	descriptors, err := source.Load(context.Background())
	require.NoError(t, err)

	seen := make(map[rulenode.ComponentType]bool)
	for _, d := range descriptors {
		seen[d.Type] = true
	}
	for _, typ := range rulenode.NodeTypes {
		require.True(t, seen[typ], "starter catalog has no %s node", typ)
	}
}

func TestStarterCatalog_Contents(t *testing.T) {
	data := StarterCatalog()
	require.NotEmpty(t, data)
	require.Contains(t, string(data), "components:")
}
