// Package nn implements the neural network layers used by the affinity
// models.
//
// This package provides:
//   - Module interface: Forward + Parameters
//   - Parameter: named trainable tensor with an optional gradient
//   - Layers: Linear, Embedding, Conv1D, GCNConv
//   - Pooling: GlobalMaxPool1D, GlobalMaxPool (per graph)
//   - Regularisation and activation: Dropout, ReLU
//   - Loss: MSELoss
//   - Sequential container
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/born-ml/affinity/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	mlp := nn.NewSequential[B](
//	    nn.NewLinear(256, 128, rng, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(128, 1, rng, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module, or nil
	// for stateless modules.
	Parameters() []*Parameter[B]
}

// Trainable is implemented by modules whose behaviour differs between
// training and evaluation (Dropout, and containers holding it).
type Trainable interface {
	Train(training bool)
}

// CountParameters returns the total number of scalar weights in params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	total := 0
	for _, p := range params {
		total += p.Tensor().NumElements()
	}
	return total
}
