// Package testutil builds rule-node fixtures for tests: descriptor sets,
// YAML catalogs on disk and seeded UI resource stores.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/rulekit/internal/domain/rulenode"
	"github.com/zjrosen/rulekit/internal/domain/uiresource"
	"github.com/zjrosen/rulekit/internal/infrastructure/catalog"
)

// Builder accumulates descriptors and UI resources.
type Builder struct {
	t           *testing.T
	descriptors []*rulenode.Descriptor
	resources   []resourceData
}

// NewBuilder creates an empty builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{t: t}
}

// WithComponent adds a descriptor with optional configuration.
func (b *Builder) WithComponent(typ rulenode.ComponentType, clazz string, opts ...DescriptorOption) *Builder {
	d := defaultDescriptor(typ, clazz)
	for _, opt := range opts {
		opt(d)
	}
	b.descriptors = append(b.descriptors, d)
	return b
}

// WithResource adds a UI resource to seed into a store.
func (b *Builder) WithResource(id, contentType, content string) *Builder {
	b.resources = append(b.resources, resourceData{id: id, contentType: contentType, content: content})
	return b
}

// Descriptors returns deep copies of the accumulated descriptors in
// insertion order.
func (b *Builder) Descriptors() []*rulenode.Descriptor {
	out := make([]*rulenode.Descriptor, len(b.descriptors))
	for i, d := range b.descriptors {
		out[i] = d.Clone()
	}
	return out
}

// WriteCatalog writes the descriptors as a YAML catalog under dir and
// returns the file path.
func (b *Builder) WriteCatalog(dir string) string {
	b.t.Helper()
	file := catalog.File{Components: make([]rulenode.Descriptor, len(b.descriptors))}
	for i, d := range b.descriptors {
		file.Components[i] = *d
	}
	data, err := yaml.Marshal(file)
	require.NoError(b.t, err)

	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(b.t, os.WriteFile(path, data, 0o600))
	return path
}

// Seed saves the accumulated resources into repo.
func (b *Builder) Seed(repo uiresource.Repository) {
	b.t.Helper()
	ctx := context.Background()
	for _, r := range b.resources {
		err := repo.Save(ctx, &uiresource.Resource{
			ID:          r.id,
			ContentType: r.contentType,
			Content:     []byte(r.content),
			ETag:        `"` + r.id + `"`,
			FetchedAt:   time.Now().UTC(),
		})
		require.NoError(b.t, err)
	}
}
