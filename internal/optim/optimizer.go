// Package optim implements gradient based parameter updates.
//
// This package provides:
//   - Optimizer interface
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Each Step applies exactly one update; iterating over data is left to the
// caller.
//
//	backend.Tape().StartRecording()
//	loss := model.Loss(model.Forward(drug, target), affinity)
//	grads := autodiff.Backward(loss, backend)
//	optimizer.Step(grads)
//	backend.Tape().Clear()
package optim

import (
	"github.com/born-ml/affinity/internal/nn"
	"github.com/born-ml/affinity/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step updates parameters in place from a gradient map produced by
	// autodiff.Backward. Parameters without a gradient are left unchanged.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// getGradient returns the float32 gradient of param, or nil if the parameter
// was not part of the computation.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) []float32 {
	if param == nil {
		return nil
	}
	g, ok := grads[param.Tensor().Raw()]
	if !ok {
		return nil
	}
	return g.AsFloat32()
}
