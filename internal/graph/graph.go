// Package graph holds molecule graphs in the edge-list form consumed by graph
// convolutions and batches several graphs into one disjoint union.
//
// Featurisation (turning SMILES into atoms and bonds) happens upstream; this
// package only validates and assembles already-featurised graphs.
package graph

import (
	"errors"
	"fmt"
	"math"
)

// Validation errors returned (wrapped) by Validate and Collate.
var (
	ErrEmptyBatch     = errors.New("no graphs to collate")
	ErrNoNodes        = errors.New("graph has no nodes")
	ErrFeatureWidth   = errors.New("inconsistent node feature width")
	ErrEdgeOutOfRange = errors.New("edge endpoint out of range")
)

// Graph is a single featurised molecule.
//
// Edges are directed (source, target) pairs; an undirected bond appears once
// in each direction.
type Graph struct {
	Features [][]float32 `json:"features"`
	Edges    [][2]int32  `json:"edges"`
}

// NumNodes returns the number of nodes (atoms).
func (g *Graph) NumNodes() int {
	return len(g.Features)
}

// NumFeatures returns the node feature width, or 0 for an empty graph.
func (g *Graph) NumFeatures() int {
	if len(g.Features) == 0 {
		return 0
	}
	return len(g.Features[0])
}

// Validate checks that the graph has nodes, that every node has the same
// feature width and that every edge references an existing node.
func (g *Graph) Validate() error {
	n := g.NumNodes()
	if n == 0 {
		return ErrNoNodes
	}
	width := g.NumFeatures()
	for i, row := range g.Features {
		if len(row) != width {
			return fmt.Errorf("%w: node %d has %d features, node 0 has %d", ErrFeatureWidth, i, len(row), width)
		}
	}
	for i, e := range g.Edges {
		if e[0] < 0 || int(e[0]) >= n || e[1] < 0 || int(e[1]) >= n {
			return fmt.Errorf("%w: edge %d (%d -> %d) with %d nodes", ErrEdgeOutOfRange, i, e[0], e[1], n)
		}
	}
	return nil
}

// Batch is the disjoint union of several graphs: node features are stacked,
// edge endpoints are offset by the number of nodes in earlier graphs and
// Index records which graph every node belongs to.
type Batch struct {
	X           []float32 // [NumNodes, NumFeatures], row-major
	NumNodes    int
	NumFeatures int
	Src         []int32 // [E]
	Dst         []int32 // [E]
	Index       []int32 // [NumNodes], graph id per node
	NumGraphs   int
}

// Collate assembles graphs into a Batch. All graphs must share a feature width.
func Collate(graphs []Graph) (*Batch, error) {
	if len(graphs) == 0 {
		return nil, ErrEmptyBatch
	}

	width := graphs[0].NumFeatures()
	b := &Batch{NumFeatures: width, NumGraphs: len(graphs)}
	for gi := range graphs {
		g := &graphs[gi]
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("graph %d: %w", gi, err)
		}
		if g.NumFeatures() != width {
			return nil, fmt.Errorf("graph %d: %w: %d features, graph 0 has %d",
				gi, ErrFeatureWidth, g.NumFeatures(), width)
		}

		offset := int32(b.NumNodes)
		for _, row := range g.Features {
			b.X = append(b.X, row...)
			b.Index = append(b.Index, int32(gi))
		}
		for _, e := range g.Edges {
			b.Src = append(b.Src, e[0]+offset)
			b.Dst = append(b.Dst, e[1]+offset)
		}
		b.NumNodes += g.NumNodes()
	}
	return b, nil
}

// NumEdges returns the number of directed edges, excluding self-loops added
// by GCNNorm.
func (b *Batch) NumEdges() int {
	return len(b.Src)
}

// GCNNorm returns the self-looped edge list with symmetric normalisation
// coefficients w[e] = deg(src)^-1/2 * deg(dst)^-1/2, where deg counts
// incoming edges including the self-loop.
//
// Existing self-loops are replaced by a single unit self-loop per node, which
// is appended after the original edges.
func (b *Batch) GCNNorm() (src, dst []int32, weight []float32) {
	src = make([]int32, 0, len(b.Src)+b.NumNodes)
	dst = make([]int32, 0, len(b.Src)+b.NumNodes)
	for i := range b.Src {
		if b.Src[i] == b.Dst[i] {
			continue
		}
		src = append(src, b.Src[i])
		dst = append(dst, b.Dst[i])
	}
	for n := 0; n < b.NumNodes; n++ {
		src = append(src, int32(n))
		dst = append(dst, int32(n))
	}

	deg := make([]float64, b.NumNodes)
	for _, d := range dst {
		deg[d]++
	}
	weight = make([]float32, len(src))
	for e := range src {
		weight[e] = float32(1 / math.Sqrt(deg[src[e]]*deg[dst[e]]))
	}
	return src, dst, weight
}
