package nn

import (
	"fmt"

	"github.com/born-ml/affinity/internal/tensor"
)

// GlobalMaxPool1D takes the maximum over the whole length axis:
// [batch, channels, length] -> [batch, channels, 1].
//
// It is an adaptive max pool with output size 1.
type GlobalMaxPool1D[B tensor.Backend] struct{}

// NewGlobalMaxPool1D creates a new GlobalMaxPool1D module.
func NewGlobalMaxPool1D[B tensor.Backend]() *GlobalMaxPool1D[B] {
	return &GlobalMaxPool1D[B]{}
}

// Forward pools input [N, C, L] to [N, C, 1].
func (p *GlobalMaxPool1D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if len(input.Shape()) != 3 {
		panic(fmt.Sprintf("global_max_pool1d: expected 3D input [N,C,L], got shape %v", input.Shape()))
	}
	return input.MaxDim(2, true)
}

// Parameters returns nil.
func (p *GlobalMaxPool1D[B]) Parameters() []*Parameter[B] {
	return nil
}

// GlobalMaxPool reduces node features of a batch of graphs to one vector per
// graph by a feature-wise maximum over each graph's nodes.
type GlobalMaxPool[B tensor.Backend] struct{}

// NewGlobalMaxPool creates a new GlobalMaxPool module.
func NewGlobalMaxPool[B tensor.Backend]() *GlobalMaxPool[B] {
	return &GlobalMaxPool[B]{}
}

// Forward pools x [N, F] into [numGraphs, F], where batch[i] is the graph of
// node i. Graphs without nodes pool to zeros.
func (p *GlobalMaxPool[B]) Forward(x *tensor.Tensor[float32, B], batch *tensor.Tensor[int32, B], numGraphs int) *tensor.Tensor[float32, B] {
	return x.SegmentMax(batch, numGraphs)
}
