package nn

import (
	"fmt"

	"github.com/born-ml/affinity/internal/tensor"
)

// MSELoss computes Mean Squared Error loss: mean((predictions - targets)²).
//
// The loss is built from differentiable tensor operations, so a backward
// pass from its result reaches the model parameters.
//
// Example:
//
//	mse := nn.NewMSELoss[B]()
//	loss := mse.Forward(model.Forward(x), targets)
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{}
}

// Forward returns the scalar (shape []) mean squared error.
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("mse_loss: predictions %v and targets %v must have the same shape",
			predictions.Shape(), targets.Shape()))
	}
	n := predictions.NumElements()
	if n == 0 {
		panic("mse_loss: empty predictions")
	}

	diff := predictions.Sub(targets)
	return diff.Mul(diff).Sum().MulScalar(1 / float32(n))
}

// Parameters returns nil.
func (m *MSELoss[B]) Parameters() []*Parameter[B] {
	return nil
}
