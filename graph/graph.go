// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph batches molecule graphs for the graph encoder.
//
// Example:
//
//	water := graph.Graph{
//	    Features: [][]float32{{8, 0}, {1, 0}, {1, 0}},
//	    Edges:    [][2]int32{{0, 1}, {1, 0}, {0, 2}, {2, 0}},
//	}
//	batch, err := graph.Collate([]graph.Graph{water, ethanol})
package graph

import "github.com/born-ml/affinity/internal/graph"

// Validation errors returned (wrapped) by Graph.Validate and Collate.
var (
	ErrEmptyBatch     = graph.ErrEmptyBatch
	ErrNoNodes        = graph.ErrNoNodes
	ErrFeatureWidth   = graph.ErrFeatureWidth
	ErrEdgeOutOfRange = graph.ErrEdgeOutOfRange
)

// Graph is one molecule: a feature row per atom and directed bond edges.
type Graph = graph.Graph

// Batch is the disjoint union of several graphs.
type Batch = graph.Batch

// Collate merges graphs into one Batch, offsetting edge endpoints and
// recording which graph each node belongs to.
func Collate(graphs []Graph) (*Batch, error) {
	return graph.Collate(graphs)
}
