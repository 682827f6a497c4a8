// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/affinity/internal/nn"
	"github.com/born-ml/affinity/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Methods:
//
//	Name() string
//	    Returns the parameter name (e.g., "conv1.weight").
//
//	Tensor() *tensor.Tensor[float32, B]
//	    Returns the parameter tensor.
//
//	Grad() *tensor.Tensor[float32, B]
//	    Returns the gradient tensor (nil if not computed yet).
//
//	SetGrad(grad *tensor.Tensor[float32, B])
//	    Sets the gradient tensor.
//
//	ZeroGrad()
//	    Clears the gradient tensor.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// PrefixParameters renames params to "prefix.name" in place and returns them.
func PrefixParameters[B tensor.Backend](prefix string, params []*Parameter[B]) []*Parameter[B] {
	return nn.PrefixParameters(prefix, params)
}

// AttachGradients stores the gradient computed for each parameter by
// autodiff.Backward. Parameters without a gradient are zeroed.
func AttachGradients[B tensor.Backend](params []*Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) {
	nn.AttachGradients(params, grads)
}

// CountParameters returns the total number of scalar weights in params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	return nn.CountParameters(params)
}
