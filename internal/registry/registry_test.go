package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/rulekit/internal/domain/rulenode"
	"github.com/zjrosen/rulekit/internal/metrics"
	"github.com/zjrosen/rulekit/internal/mocks"
	"github.com/zjrosen/rulekit/internal/pubsub"
)

var errUnavailable = errors.New("source unavailable")

func descriptor(typ, name, clazz string, resources ...string) *rulenode.Descriptor {
	d := &rulenode.Descriptor{Type: rulenode.ComponentType(typ), Name: name, Clazz: clazz}
	d.Definition().RelationTypes = []string{"Success", "Failure"}
	d.Definition().UIResources = resources
	return d
}

func labels(ds []*rulenode.Descriptor) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = string(d.Type) + "/" + d.Name
	}
	return out
}

// sourceFunc adapts a function to DescriptorSource.
type sourceFunc func(ctx context.Context, types []rulenode.ComponentType) ([]*rulenode.Descriptor, error)

func (f sourceFunc) FetchDescriptors(ctx context.Context, types []rulenode.ComponentType) ([]*rulenode.Descriptor, error) {
	return f(ctx, types)
}

func TestRegistry_GetComponents_SortsEnrichesAndAppendsRuleChain(t *testing.T) {
	source := mocks.NewMockDescriptorSource(t)
	loader := mocks.NewMockResourceLoader(t)

	source.EXPECT().FetchDescriptors(mock.Anything, rulenode.NodeTypes).Return([]*rulenode.Descriptor{
		descriptor("action", "B", "org.example.B", "static/b.js"),
		descriptor("action", "A", "org.example.A"),
		descriptor("filter", "Z", "org.example.Z"),
	}, nil).Once()
	loader.EXPECT().Load(mock.Anything, "static/b.js").Return(errors.New("404")).Once()

	registry := New(source, loader)

	got, err := registry.GetComponents(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"action/A", "action/B", "filter/Z", "RULE_CHAIN/rule chain"}, labels(got))
	require.Empty(t, got[0].Definition().UIResourceLoadError)
	require.Equal(t, rulenode.UIResourceLoadError, got[1].Definition().UIResourceLoadError)
	require.Empty(t, got[2].Definition().UIResourceLoadError)
	require.Equal(t, rulenode.RuleChainClazz, got[3].Clazz)
}

func TestRegistry_GetComponents_ReturnsCachedSlice(t *testing.T) {
	source := mocks.NewMockDescriptorSource(t)
	source.EXPECT().FetchDescriptors(mock.Anything, mock.Anything).Return([]*rulenode.Descriptor{
		descriptor("action", "log", "org.example.Log"),
	}, nil).Once()

	registry := New(source, nil)
	ctx := context.Background()

	first, err := registry.GetComponents(ctx)
	require.NoError(t, err)
	for range 3 {
		again, err := registry.GetComponents(ctx)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("%p", first), fmt.Sprintf("%p", again), "expected the identical cached slice")
	}
	require.Equal(t, Ready, registry.State(ctx))
}

func TestRegistry_GetComponents_SourceFailureLeavesRegistryUninitialized(t *testing.T) {
	source := mocks.NewMockDescriptorSource(t)
	source.EXPECT().FetchDescriptors(mock.Anything, mock.Anything).Return(nil, errUnavailable).Once()
	source.EXPECT().FetchDescriptors(mock.Anything, mock.Anything).Return([]*rulenode.Descriptor{}, nil).Once()

	registry := New(source, nil)
	ctx := context.Background()

	got, err := registry.GetComponents(ctx)
	require.ErrorIs(t, err, errUnavailable)
	require.Nil(t, got)
	require.Equal(t, Uninitialized, registry.State(ctx))

	// the caller retries
	got, err = registry.GetComponents(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"RULE_CHAIN/rule chain"}, labels(got))
}

func TestRegistry_GetComponents_ConcurrentFirstCallsShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	source := mocks.NewMockDescriptorSource(t)
	source.EXPECT().FetchDescriptors(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ []rulenode.ComponentType) ([]*rulenode.Descriptor, error) {
			<-release
			return []*rulenode.Descriptor{descriptor("filter", "switch", "org.example.Switch")}, nil
		}).Once()

	registry := New(source, nil)
	ctx := context.Background()

	const callers = 8
	results := make([][]*rulenode.Descriptor, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := registry.GetComponents(ctx)
			assert.NoError(t, err)
			results[i] = got
		}()
	}

	require.Eventually(t, func() bool { return registry.State(ctx) == Loading }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	for _, got := range results {
		require.Equal(t, fmt.Sprintf("%p", results[0]), fmt.Sprintf("%p", got))
	}
}

func TestRegistry_GetComponents_PartialResourceFailureAnnotates(t *testing.T) {
	source := mocks.NewMockDescriptorSource(t)
	loader := mocks.NewMockResourceLoader(t)

	source.EXPECT().FetchDescriptors(mock.Anything, mock.Anything).Return([]*rulenode.Descriptor{
		descriptor("transformation", "script", "org.example.Script", "a.js", "b.css"),
		descriptor("enrichment", "attributes", "org.example.Attrs", "c.js"),
	}, nil).Once()
	loader.EXPECT().Load(mock.Anything, "a.js").Return(nil).Once()
	loader.EXPECT().Load(mock.Anything, "b.css").Return(errors.New("timeout")).Once()
	loader.EXPECT().Load(mock.Anything, "c.js").Return(nil).Once()

	m := metrics.New()
	registry := New(source, loader, WithMetrics(m))

	got, err := registry.GetComponents(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"enrichment/attributes", "RULE_CHAIN/rule chain", "transformation/script"}, labels(got))
	require.Empty(t, got[0].Definition().UIResourceLoadError)
	require.Equal(t, rulenode.UIResourceLoadError, got[2].Definition().UIResourceLoadError)

	require.Equal(t, 1.0, testutil.ToFloat64(m.ResourceFailures))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RegistryLoads.WithLabelValues(metrics.ResultOK)))
	require.Equal(t, 3.0, testutil.ToFloat64(m.RegistryComponents))
}

func TestRegistry_GetComponents_RequestsConfiguredTypes(t *testing.T) {
	source := mocks.NewMockDescriptorSource(t)
	source.EXPECT().FetchDescriptors(mock.Anything, []rulenode.ComponentType{rulenode.TypeFilter}).
		Return(nil, nil).Once()

	registry := New(source, nil, WithComponentTypes(rulenode.TypeFilter))

	_, err := registry.GetComponents(context.Background())
	require.NoError(t, err)
}

func TestRegistry_GetByClass(t *testing.T) {
	source := mocks.NewMockDescriptorSource(t)
	source.EXPECT().FetchDescriptors(mock.Anything, mock.Anything).Return([]*rulenode.Descriptor{
		descriptor("action", "log", "org.example.Log"),
	}, nil).Once()

	registry := New(source, nil)
	ctx := context.Background()

	before := registry.GetByClass(ctx, "org.example.Log")
	require.Equal(t, rulenode.TypeUnknown, before.Type, "nothing is cached before the first load")

	components, err := registry.GetComponents(ctx)
	require.NoError(t, err)

	found := registry.GetByClass(ctx, "org.example.Log")
	require.Same(t, components[0], found)

	chain := registry.GetByClass(ctx, rulenode.RuleChainClazz)
	require.Equal(t, rulenode.TypeRuleChain, chain.Type)

	unknown := registry.GetByClass(ctx, "unknown.Class")
	require.Equal(t, "unknown.Class", unknown.Clazz)
	require.Contains(t, unknown.Definition().Details, "unknown.Class")
	require.Equal(t, rulenode.TypeUnknown, unknown.Type)
}

func TestRegistry_LinksDelegate(t *testing.T) {
	registry := New(mocks.NewMockDescriptorSource(t), nil)
	d := descriptor("filter", "switch", "org.example.Switch")
	d.Definition().CustomRelations = true

	require.Equal(t, rulenode.Link{Name: "Success", Value: "Success"}, registry.SupportedLinks(d)["Success"])
	require.Len(t, registry.SupportedLinks(d), 2)
	require.True(t, registry.AllowsCustomLinks(d))
}

func TestRegistry_InvalidateRebuildsAndPublishes(t *testing.T) {
	source := mocks.NewMockDescriptorSource(t)
	source.EXPECT().FetchDescriptors(mock.Anything, mock.Anything).Return([]*rulenode.Descriptor{
		descriptor("action", "log", "org.example.Log"),
	}, nil).Times(2)

	registry := New(source, nil)
	defer registry.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := registry.Subscribe(ctx)

	first, err := registry.GetComponents(ctx)
	require.NoError(t, err)
	require.Equal(t, pubsub.LoadedEvent, (<-events).Type)

	require.NoError(t, registry.Invalidate(ctx))
	require.Equal(t, Uninitialized, registry.State(ctx))
	require.Equal(t, pubsub.InvalidatedEvent, (<-events).Type)

	second, err := registry.Refresh(ctx)
	require.NoError(t, err)
	require.NotEqual(t, fmt.Sprintf("%p", first), fmt.Sprintf("%p", second))
}

func TestRegistry_TTLExpiresCachedSet(t *testing.T) {
	var calls int
	source := sourceFunc(func(ctx context.Context, _ []rulenode.ComponentType) ([]*rulenode.Descriptor, error) {
		calls++
		return nil, nil
	})

	registry := New(source, nil, WithTTL(20*time.Millisecond))
	ctx := context.Background()

	_, err := registry.GetComponents(ctx)
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)
	_, err = registry.GetComponents(ctx)
	require.NoError(t, err)

	require.Equal(t, 2, calls)
}

func TestRegistry_GetComponents_SortedWithOneRuleChain(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		types := rapid.SampledFrom([]string{"ACTION", "FILTER", "ENRICHMENT", "EXTERNAL", "TRANSFORMATION", "action", "filter"})
		gen := rapid.Custom(func(t *rapid.T) *rulenode.Descriptor {
			return descriptor(
				types.Draw(t, "type"),
				rapid.StringMatching(`[A-Za-z][a-z ]{0,6}`).Draw(t, "name"),
				rapid.StringMatching(`org\.example\.[A-Z][a-z]{0,5}`).Draw(t, "clazz"),
			)
		})
		fetched := rapid.SliceOf(gen).Draw(t, "fetched")

		var calls int
		registry := New(sourceFunc(func(context.Context, []rulenode.ComponentType) ([]*rulenode.Descriptor, error) {
			calls++
			return fetched, nil
		}), nil)

		got, err := registry.GetComponents(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != len(fetched)+1 {
			t.Fatalf("got %d descriptors, want %d", len(got), len(fetched)+1)
		}
		ruleChains := 0
		for i, d := range got {
			if d.Type == rulenode.TypeRuleChain {
				ruleChains++
			}
			if i > 0 && rulenode.Compare(got[i-1], d) > 0 {
				t.Fatalf("descriptors %d and %d out of order", i-1, i)
			}
		}
		if ruleChains != 1 {
			t.Fatalf("got %d rule chain descriptors, want 1", ruleChains)
		}

		_, _ = registry.GetComponents(context.Background())
		if calls != 1 {
			t.Fatalf("source called %d times, want 1", calls)
		}
	})
}

func TestState_String(t *testing.T) {
	require.Equal(t, "uninitialized", Uninitialized.String())
	require.Equal(t, "loading", Loading.String())
	require.Equal(t, "ready", Ready.String())
}
