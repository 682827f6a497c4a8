package nn

import (
	"github.com/born-ml/affinity/internal/tensor"
)

// ReLU is a Rectified Linear Unit activation module: f(x) = max(0, x).
//
// Example:
//
//	relu := nn.NewReLU[B]()
//	output := relu.Forward(input)
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies max(0, x) element-wise.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.ReLU()
}

// Parameters returns nil.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}
