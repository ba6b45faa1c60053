package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "set to true",
			registry: New(map[string]bool{FlagWarmOnStart: true}),
			flag:     FlagWarmOnStart,
			expected: true,
		},
		{
			name:     "set to false",
			registry: New(map[string]bool{FlagSkipUIResources: false}),
			flag:     FlagSkipUIResources,
			expected: false,
		},
		{
			name:     "unknown flag",
			registry: New(map[string]bool{FlagWarmOnStart: true}),
			flag:     "unknown-flag",
			expected: false,
		},
		{
			name:     "nil map",
			registry: New(nil),
			flag:     FlagWarmOnStart,
			expected: false,
		},
		{
			name:     "nil registry",
			registry: nil,
			flag:     FlagWarmOnStart,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_CopiesInput(t *testing.T) {
	input := map[string]bool{FlagSkipUIResources: true}
	r := New(input)

	input[FlagSkipUIResources] = false
	require.True(t, r.Enabled(FlagSkipUIResources))

	all := r.All()
	all[FlagWarmOnStart] = true
	require.False(t, r.Enabled(FlagWarmOnStart))
}

func TestRegistry_AllOnNil(t *testing.T) {
	var r *Registry
	require.NotNil(t, r.All())
	require.Empty(t, r.All())
}
