package domain_test

import (
	"slices"
	"testing"

	"github.com/ai-kana/kb/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferGraph_Validate(t *testing.T) {
	tests := []struct {
		name    string
		buffers map[string][]string
		wantErr error
	}{
		{
			name:    "Self Reference A->A",
			buffers: map[string][]string{"A": {"A"}},
			wantErr: domain.ErrCycleDetected,
		},
		{
			name:    "Two Node Cycle A->B->A",
			buffers: map[string][]string{"A": {"B"}, "B": {"A"}},
			wantErr: domain.ErrCycleDetected,
		},
		{
			name:    "Three Node Cycle A->B->C->A",
			buffers: map[string][]string{"A": {"B"}, "B": {"C"}, "C": {"A"}},
			wantErr: domain.ErrCycleDetected,
		},
		{
			name:    "Missing Reference",
			buffers: map[string][]string{"A": {"missing"}},
			wantErr: domain.ErrBufferNotFound,
		},
		{
			name:    "Chain A->B->C",
			buffers: map[string][]string{"A": {"B"}, "B": {"C"}, "C": nil},
		},
		{
			name:    "Shared Reference",
			buffers: map[string][]string{"A": {"C"}, "B": {"C"}, "C": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := domain.NewBufferGraph()
			for name, refs := range tt.buffers {
				require.NoError(t, g.AddBuffer(name, refs))
			}

			err := g.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestBufferGraph_WalkOrdersReferencesFirst(t *testing.T) {
	g := domain.NewBufferGraph()
	require.NoError(t, g.AddBuffer("main", []string{"objects", "docs"}))
	require.NoError(t, g.AddBuffer("objects", []string{"gen"}))
	require.NoError(t, g.AddBuffer("docs", nil))
	require.NoError(t, g.AddBuffer("gen", nil))
	require.NoError(t, g.Validate())

	order := slices.Collect(g.Walk())
	require.Len(t, order, 4)

	pos := func(name string) int { return slices.Index(order, name) }
	assert.Less(t, pos("gen"), pos("objects"))
	assert.Less(t, pos("objects"), pos("main"))
	assert.Less(t, pos("docs"), pos("main"))
}

func TestBufferGraph_AddDuplicate(t *testing.T) {
	g := domain.NewBufferGraph()
	require.NoError(t, g.AddBuffer("main", nil))
	err := g.AddBuffer("main", nil)
	require.ErrorContains(t, err, domain.ErrBufferAlreadyExists.Error())
}
