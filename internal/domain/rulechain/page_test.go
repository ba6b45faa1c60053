package rulechain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageLink_Query(t *testing.T) {
	tests := []struct {
		name string
		link PageLink
		want string
	}{
		{"limit only", PageLink{Limit: 10}, "limit=10"},
		{"text search escaped", PageLink{Limit: 5, TextSearch: "root chain"}, "limit=5&textSearch=root+chain"},
		{
			"all offsets",
			PageLink{Limit: 20, TextSearch: "a", IDOffset: "id-1", TextOffset: "b"},
			"limit=20&textSearch=a&idOffset=id-1&textOffset=b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.link.Query())
		})
	}
}
