// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// It wraps any backend so that every differentiable operation is recorded on
// a gradient tape while recording is enabled.
//
// Example:
//
//	import (
//	    "github.com/born-ml/affinity/autodiff"
//	    "github.com/born-ml/affinity/backend/cpu"
//	    "github.com/born-ml/affinity/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//
//	    backend.Tape().StartRecording()
//	    x := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    loss := x.Mul(x).Sum()
//
//	    grads := autodiff.Backward(loss, backend) // grads[x.Raw()] == 2*x
//	}
package autodiff

import (
	"github.com/born-ml/affinity/internal/autodiff"
	"github.com/born-ml/affinity/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients of t with respect to every recorded input,
// keyed by raw tensor.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
