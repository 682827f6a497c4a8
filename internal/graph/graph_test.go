package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func path3() Graph {
	return Graph{
		Features: [][]float32{{1, 0}, {0, 1}, {1, 1}},
		Edges:    [][2]int32{{0, 1}, {1, 0}, {1, 2}, {2, 1}},
	}
}

func pair() Graph {
	return Graph{
		Features: [][]float32{{2, 2}, {3, 3}},
		Edges:    [][2]int32{{0, 1}, {1, 0}},
	}
}

func TestGraph_Validate(t *testing.T) {
	g := path3()
	require.NoError(t, g.Validate())
	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2, g.NumFeatures())

	tests := []struct {
		name  string
		graph Graph
		want  error
	}{
		{"NoNodes", Graph{}, ErrNoNodes},
		{"RaggedFeatures", Graph{Features: [][]float32{{1, 2}, {3}}}, ErrFeatureWidth},
		{"EdgeTooLarge", Graph{Features: [][]float32{{1}}, Edges: [][2]int32{{0, 1}}}, ErrEdgeOutOfRange},
		{"EdgeNegative", Graph{Features: [][]float32{{1}}, Edges: [][2]int32{{-1, 0}}}, ErrEdgeOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.graph.Validate(), tt.want)
		})
	}
}

func TestCollate(t *testing.T) {
	b, err := Collate([]Graph{path3(), pair()})
	require.NoError(t, err)

	assert.Equal(t, 5, b.NumNodes)
	assert.Equal(t, 2, b.NumFeatures)
	assert.Equal(t, 2, b.NumGraphs)
	assert.Equal(t, []float32{1, 0, 0, 1, 1, 1, 2, 2, 3, 3}, b.X)
	assert.Equal(t, []int32{0, 0, 0, 1, 1}, b.Index)
	assert.Equal(t, []int32{0, 1, 1, 2, 3, 4}, b.Src)
	assert.Equal(t, []int32{1, 0, 2, 1, 4, 3}, b.Dst)
	assert.Equal(t, 6, b.NumEdges())
}

func TestCollate_Errors(t *testing.T) {
	_, err := Collate(nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	wide := Graph{Features: [][]float32{{1, 2, 3}}}
	_, err = Collate([]Graph{path3(), wide})
	assert.ErrorIs(t, err, ErrFeatureWidth)
	assert.ErrorContains(t, err, "graph 1")

	bad := Graph{Features: [][]float32{{1, 2}}, Edges: [][2]int32{{0, 4}}}
	_, err = Collate([]Graph{bad})
	assert.ErrorIs(t, err, ErrEdgeOutOfRange)
}

func TestBatch_GCNNorm(t *testing.T) {
	// Path plus an explicit self-loop on node 0 that must not be
	// counted twice.
	g := path3()
	g.Edges = append(g.Edges, [2]int32{0, 0})
	b, err := Collate([]Graph{g})
	require.NoError(t, err)

	src, dst, w := b.GCNNorm()
	assert.Equal(t, []int32{0, 1, 1, 2, 0, 1, 2}, src)
	assert.Equal(t, []int32{1, 0, 2, 1, 0, 1, 2}, dst)

	// Degrees with self-loops: 2, 3, 2.
	want := []float64{
		1 / math.Sqrt(6), 1 / math.Sqrt(6), 1 / math.Sqrt(6), 1 / math.Sqrt(6),
		1.0 / 2, 1.0 / 3, 1.0 / 2,
	}
	require.Len(t, w, len(want))
	for i := range want {
		assert.InDelta(t, want[i], w[i], 1e-6, "edge %d", i)
	}
}

func TestBatch_GCNNorm_IsolatedNode(t *testing.T) {
	b, err := Collate([]Graph{{Features: [][]float32{{1}}}})
	require.NoError(t, err)

	src, dst, w := b.GCNNorm()
	assert.Equal(t, []int32{0}, src)
	assert.Equal(t, []int32{0}, dst)
	assert.Equal(t, []float32{1}, w)
}
