// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dta

import (
	"math/rand"

	"github.com/born-ml/affinity/graph"
	"github.com/born-ml/affinity/internal/dta"
	"github.com/born-ml/affinity/nn"
	"github.com/born-ml/affinity/tensor"
)

// Configuration and input errors.
var (
	ErrInvalidConfig   = dta.ErrInvalidConfig
	ErrNoSequences     = dta.ErrNoSequences
	ErrSequenceTooLong = dta.ErrSequenceTooLong
	ErrLabelOutOfRange = dta.ErrLabelOutOfRange
)

// Configs

// SequenceEncoderConfig configures a DeepDTAEncoder.
type SequenceEncoderConfig = dta.SequenceEncoderConfig

// DefaultDrugSequenceConfig returns the SMILES encoder defaults.
func DefaultDrugSequenceConfig() SequenceEncoderConfig { return dta.DefaultDrugSequenceConfig() }

// DefaultTargetSequenceConfig returns the protein encoder defaults.
func DefaultTargetSequenceConfig() SequenceEncoderConfig { return dta.DefaultTargetSequenceConfig() }

// GraphEncoderConfig configures a DrugGCNEncoder.
type GraphEncoderConfig = dta.GraphEncoderConfig

// DefaultGraphEncoderConfig returns the GraphDTA molecule encoder defaults.
func DefaultGraphEncoderConfig() GraphEncoderConfig { return dta.DefaultGraphEncoderConfig() }

// DecoderConfig configures an MLPDecoder.
type DecoderConfig = dta.DecoderConfig

// DefaultDecoderConfig returns the decoder defaults for inDim input features.
func DefaultDecoderConfig(inDim int) DecoderConfig { return dta.DefaultDecoderConfig(inDim) }

// DeepDTAConfig configures a DeepDTA model.
type DeepDTAConfig = dta.DeepDTAConfig

// DefaultDeepDTAConfig returns the published DeepDTA architecture.
func DefaultDeepDTAConfig() DeepDTAConfig { return dta.DefaultDeepDTAConfig() }

// GraphDTAConfig configures a GraphDTA model.
type GraphDTAConfig = dta.GraphDTAConfig

// DefaultGraphDTAConfig returns the GraphDTA (GCN) architecture.
func DefaultGraphDTAConfig() GraphDTAConfig { return dta.DefaultGraphDTAConfig() }

// Building blocks

// DeepDTAEncoder is the 1D convolutional sequence encoder.
type DeepDTAEncoder[B tensor.Backend] = dta.DeepDTAEncoder[B]

// NewDeepDTAEncoder validates cfg and builds a sequence encoder.
func NewDeepDTAEncoder[B tensor.Backend](cfg SequenceEncoderConfig, rng *rand.Rand, backend B) (*DeepDTAEncoder[B], error) {
	return dta.NewDeepDTAEncoder(cfg, rng, backend)
}

// DrugGCNEncoder is the graph convolutional molecule encoder.
type DrugGCNEncoder[B tensor.Backend] = dta.DrugGCNEncoder[B]

// NewDrugGCNEncoder validates cfg and builds a molecule encoder in training
// mode.
func NewDrugGCNEncoder[B tensor.Backend](cfg GraphEncoderConfig, rng *rand.Rand, backend B) (*DrugGCNEncoder[B], error) {
	return dta.NewDrugGCNEncoder(cfg, rng, backend)
}

// MLPDecoder is the fully connected regression head.
type MLPDecoder[B tensor.Backend] = dta.MLPDecoder[B]

// NewMLPDecoder validates cfg and builds a decoder in training mode.
func NewMLPDecoder[B tensor.Backend](cfg DecoderConfig, rng *rand.Rand, backend B) (*MLPDecoder[B], error) {
	return dta.NewMLPDecoder(cfg, rng, backend)
}

// Models

// DeepDTA predicts affinity from drug and target label sequences.
type DeepDTA[B tensor.Backend] = dta.DeepDTA[B]

// NewDeepDTA builds a DeepDTA model in training mode.
func NewDeepDTA[B tensor.Backend](cfg DeepDTAConfig, rng *rand.Rand, backend B) (*DeepDTA[B], error) {
	return dta.NewDeepDTA(cfg, rng, backend)
}

// GraphDTA predicts affinity from a molecule graph and a target sequence.
type GraphDTA[B tensor.Backend] = dta.GraphDTA[B]

// NewGraphDTA builds a GraphDTA model in training mode.
func NewGraphDTA[B tensor.Backend](cfg GraphDTAConfig, rng *rand.Rand, backend B) (*GraphDTA[B], error) {
	return dta.NewGraphDTA(cfg, rng, backend)
}

// Inputs

// SequenceBatch packs label-encoded sequences into an encoder input,
// right-padding with label 0.
func SequenceBatch[B tensor.Backend](cfg SequenceEncoderConfig, seqs [][]int32, backend B) (*tensor.Tensor[int32, B], error) {
	return dta.SequenceBatch(cfg, seqs, backend)
}

// BuildAdjacency converts a graph batch into the normalised, self-looped
// adjacency used by the graph convolutions.
func BuildAdjacency[B tensor.Backend](batch *graph.Batch, backend B) *nn.Adjacency[B] {
	return dta.BuildAdjacency(batch, backend)
}
