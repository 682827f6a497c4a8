// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/affinity/internal/nn"
	"github.com/born-ml/affinity/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Trainable is implemented by modules that behave differently in training
// and evaluation.
type Trainable = nn.Trainable

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with weight and bias drawn from
// U(-1/sqrt(in), 1/sqrt(in)).
//
// Example:
//
//	layer := nn.NewLinear(1024, 512, rng, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, rng, backend)
}

// Embedding is a lookup table from int32 labels to dense vectors.
type Embedding[B tensor.Backend] = nn.Embedding[B]

// NewEmbedding creates an embedding table initialised from N(0, 1).
func NewEmbedding[B tensor.Backend](numEmbeddings, embeddingDim int, rng *rand.Rand, backend B) *Embedding[B] {
	return nn.NewEmbedding(numEmbeddings, embeddingDim, rng, backend)
}

// Conv1D represents a 1D convolutional layer over [N, C, L] inputs.
type Conv1D[B tensor.Backend] = nn.Conv1D[B]

// NewConv1D creates a stride 1, unpadded 1D convolution.
//
// Example:
//
//	conv := nn.NewConv1D(1200, 32, 8, rng, backend)
func NewConv1D[B tensor.Backend](inChannels, outChannels, kernelSize int, rng *rand.Rand, backend B) *Conv1D[B] {
	return nn.NewConv1D(inChannels, outChannels, kernelSize, rng, backend)
}

// NewConv1DWithOptions creates a 1D convolution with explicit stride and
// padding.
func NewConv1DWithOptions[B tensor.Backend](
	inChannels, outChannels, kernelSize int,
	stride, padding int,
	rng *rand.Rand,
	backend B,
) *Conv1D[B] {
	return nn.NewConv1DWithOptions(inChannels, outChannels, kernelSize, stride, padding, rng, backend)
}

// Adjacency is a weighted edge list consumed by GCNConv.
type Adjacency[B tensor.Backend] = nn.Adjacency[B]

// GCNConv is a Kipf & Welling graph convolution.
type GCNConv[B tensor.Backend] = nn.GCNConv[B]

// NewGCNConv creates a graph convolution with Xavier weights and zero bias.
func NewGCNConv[B tensor.Backend](inChannels, outChannels int, rng *rand.Rand, backend B) *GCNConv[B] {
	return nn.NewGCNConv(inChannels, outChannels, rng, backend)
}

// Pooling

// GlobalMaxPool1D reduces [N, C, L] to [N, C, 1].
type GlobalMaxPool1D[B tensor.Backend] = nn.GlobalMaxPool1D[B]

// NewGlobalMaxPool1D creates a global 1D max pool.
func NewGlobalMaxPool1D[B tensor.Backend]() *GlobalMaxPool1D[B] {
	return nn.NewGlobalMaxPool1D[B]()
}

// GlobalMaxPool reduces node features [N, F] to per-graph features [G, F].
type GlobalMaxPool[B tensor.Backend] = nn.GlobalMaxPool[B]

// NewGlobalMaxPool creates a per-graph max readout.
func NewGlobalMaxPool[B tensor.Backend]() *GlobalMaxPool[B] {
	return nn.NewGlobalMaxPool[B]()
}

// Regularisation and activations

// Dropout zeroes activations with probability rate during training.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer in training mode.
// Panics if rate is outside [0, 1].
func NewDropout[B tensor.Backend](rate float64, rng *rand.Rand) *Dropout[B] {
	return nn.NewDropout[B](rate, rng)
}

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Loss functions

// MSELoss computes the mean squared error.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates a new MSE loss.
//
// Example:
//
//	criterion := nn.NewMSELoss[B]()
//	loss := criterion.Forward(predictions, affinities)
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return nn.NewMSELoss[B]()
}

// Containers

// Sequential chains modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Initialization

// Xavier samples U(-a, a) with a = sqrt(6 / (fanIn + fanOut)).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, rng, backend)
}

// LeCunUniform samples U(-a, a) with a = 1 / sqrt(fanIn).
func LeCunUniform[B tensor.Backend](fanIn int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.LeCunUniform(fanIn, shape, rng, backend)
}

// Uniform samples U(low, high).
func Uniform[B tensor.Backend](low, high float64, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.Uniform(low, high, shape, rng, backend)
}

// Normal samples N(mean, std²).
func Normal[B tensor.Backend](mean, std float64, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.Normal(mean, std, shape, rng, backend)
}

// Zeros returns a zero-filled float32 tensor.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}
