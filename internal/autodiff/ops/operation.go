// Package ops defines the differentiable operations recorded on the gradient
// tape. Each operation keeps references to its inputs and output from the
// forward pass and maps an output gradient to input gradients.
package ops

import "github.com/born-ml/affinity/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for Inputs() given the output gradient.
	// The returned slice is parallel to Inputs(); nil entries carry no gradient.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the differentiable input tensors of this operation.
	// Integer index tensors and constants are not listed.
	Inputs() []*tensor.RawTensor

	// Output returns the tensor produced by this operation.
	Output() *tensor.RawTensor
}

// unaryOp holds the bookkeeping shared by single-input operations.
type unaryOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// Inputs returns [input].
func (op *unaryOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the operation result.
func (op *unaryOp) Output() *tensor.RawTensor {
	return op.output
}

// binaryOp holds the bookkeeping shared by two-input operations.
type binaryOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// Inputs returns [a, b].
func (op *binaryOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the operation result.
func (op *binaryOp) Output() *tensor.RawTensor {
	return op.output
}
