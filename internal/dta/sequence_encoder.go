// Package dta implements the drug–target binding affinity networks: a
// convolutional sequence encoder, a graph convolutional molecule encoder, a
// fully connected regression decoder, and the DeepDTA and GraphDTA models
// built from them.
//
// Encoders map a batch of drugs or targets to fixed-size feature vectors; the
// decoder maps concatenated drug and target features to one affinity per pair.
package dta

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/affinity/internal/nn"
	"github.com/born-ml/affinity/internal/tensor"
)

// DeepDTAEncoder encodes label-encoded sequences (SMILES or protein) with an
// embedding, three ReLU convolutions and a global max pool.
//
//	x [B, L] int32
//	  -> embedding        [B, L, E]
//	  -> relu(conv1)      [B, K,  E-k+1]
//	  -> relu(conv2)      [B, 2K, E-2(k-1)]
//	  -> relu(conv3)      [B, 3K, E-3(k-1)]
//	  -> global max pool  [B, 3K]
//
// Sequence positions are the convolution channels and the embedding axis is
// the convolved length.
type DeepDTAEncoder[B tensor.Backend] struct {
	cfg       SequenceEncoderConfig
	embedding *nn.Embedding[B]
	conv1     *nn.Conv1D[B]
	conv2     *nn.Conv1D[B]
	conv3     *nn.Conv1D[B]
	pool      *nn.GlobalMaxPool1D[B]
}

// NewDeepDTAEncoder creates a sequence encoder. A nil rng uses the global
// math/rand source for initial weights.
func NewDeepDTAEncoder[B tensor.Backend](cfg SequenceEncoderConfig, rng *rand.Rand, backend B) (*DeepDTAEncoder[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	k := cfg.NumKernels
	e := &DeepDTAEncoder[B]{
		cfg:       cfg,
		embedding: nn.NewEmbedding(cfg.NumEmbeddings+1, cfg.EmbeddingDim, rng, backend),
		conv1:     nn.NewConv1D(cfg.SequenceLength, k, cfg.KernelLength, rng, backend),
		conv2:     nn.NewConv1D(k, 2*k, cfg.KernelLength, rng, backend),
		conv3:     nn.NewConv1D(2*k, 3*k, cfg.KernelLength, rng, backend),
		pool:      nn.NewGlobalMaxPool1D[B](),
	}
	nn.PrefixParameters("embedding", e.embedding.Parameters())
	nn.PrefixParameters("conv1", e.conv1.Parameters())
	nn.PrefixParameters("conv2", e.conv2.Parameters())
	nn.PrefixParameters("conv3", e.conv3.Parameters())
	return e, nil
}

// Forward encodes x [batch, SequenceLength] into [batch, 3*NumKernels].
//
// Panics if x has the wrong shape or holds a label outside
// [0, NumEmbeddings].
func (e *DeepDTAEncoder[B]) Forward(x *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != e.cfg.SequenceLength {
		panic(fmt.Sprintf("deepdta_encoder: expected input [batch, %d], got %v", e.cfg.SequenceLength, shape))
	}

	h := e.embedding.Forward(x)
	h = e.conv1.Forward(h).ReLU()
	h = e.conv2.Forward(h).ReLU()
	h = e.conv3.Forward(h).ReLU()
	return e.pool.Forward(h).Squeeze(2)
}

// Parameters returns the embedding and convolution parameters.
func (e *DeepDTAEncoder[B]) Parameters() []*nn.Parameter[B] {
	params := e.embedding.Parameters()
	params = append(params, e.conv1.Parameters()...)
	params = append(params, e.conv2.Parameters()...)
	return append(params, e.conv3.Parameters()...)
}

// Config returns the encoder configuration.
func (e *DeepDTAEncoder[B]) Config() SequenceEncoderConfig {
	return e.cfg
}

// OutputDim returns the feature width, 3 * NumKernels.
func (e *DeepDTAEncoder[B]) OutputDim() int {
	return e.cfg.OutputDim()
}
