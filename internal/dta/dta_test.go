package dta_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/affinity/internal/autodiff"
	"github.com/born-ml/affinity/internal/backend/cpu"
	"github.com/born-ml/affinity/internal/dta"
	"github.com/born-ml/affinity/internal/graph"
	"github.com/born-ml/affinity/internal/nn"
	"github.com/born-ml/affinity/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() testBackend {
	return autodiff.New(cpu.New())
}

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

// smallSequenceConfig leaves 12 - 3*2 = 6 positions after the convolutions.
func smallSequenceConfig() dta.SequenceEncoderConfig {
	return dta.SequenceEncoderConfig{
		NumEmbeddings:  5,
		EmbeddingDim:   12,
		SequenceLength: 6,
		NumKernels:     2,
		KernelLength:   3,
	}
}

func smallGraphConfig() dta.GraphEncoderConfig {
	return dta.GraphEncoderConfig{InChannels: 3, OutChannels: 4, DropoutRate: 0.2}
}

func smallDecoderConfig() dta.DecoderConfig {
	return dta.DecoderConfig{HiddenDim: 8, OutDim: 4, DropoutRate: 0.1}
}

func sequences(t *testing.T, backend testBackend, cfg dta.SequenceEncoderConfig, seqs ...[]int32) *tensor.Tensor[int32, testBackend] {
	t.Helper()
	x, err := dta.SequenceBatch(cfg, seqs, backend)
	require.NoError(t, err)
	return x
}

// chain is the path 0 - 1 - 2 with three features per node.
func chain() graph.Graph {
	return graph.Graph{
		Features: [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Edges:    [][2]int32{{0, 1}, {1, 0}, {1, 2}, {2, 1}},
	}
}

// star has node 0 bonded to nodes 1 and 2.
func star() graph.Graph {
	return graph.Graph{
		Features: [][]float32{{1, 1, 0}, {0.5, 0, 1}, {0, 2, 0}},
		Edges:    [][2]int32{{0, 1}, {1, 0}, {0, 2}, {2, 0}},
	}
}

func collate(t *testing.T, graphs ...graph.Graph) *graph.Batch {
	t.Helper()
	b, err := graph.Collate(graphs)
	require.NoError(t, err)
	return b
}

func paramNames[B tensor.Backend](params []*nn.Parameter[B]) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name()
	}
	return names
}

func shapeOf[B tensor.Backend](t *testing.T, params []*nn.Parameter[B], name string) tensor.Shape {
	t.Helper()
	for _, p := range params {
		if p.Name() == name {
			return p.Tensor().Shape()
		}
	}
	t.Fatalf("parameter %q not found in %v", name, paramNames(params))
	return nil
}
