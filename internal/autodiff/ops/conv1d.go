package ops

import "github.com/born-ml/affinity/internal/tensor"

// Conv1DOp records a 1D convolution.
//
// Backward is pure orchestration: the backend provides the input gradient
// (a transposed convolution of the output gradient) and the kernel gradient
// (a correlation of the input with the output gradient).
type Conv1DOp struct {
	input   *tensor.RawTensor
	kernel  *tensor.RawTensor
	output  *tensor.RawTensor
	stride  int
	padding int
}

// NewConv1DOp creates a new Conv1DOp.
func NewConv1DOp(input, kernel, output *tensor.RawTensor, stride, padding int) *Conv1DOp {
	return &Conv1DOp{
		input:   input,
		kernel:  kernel,
		output:  output,
		stride:  stride,
		padding: padding,
	}
}

// Inputs returns [input, kernel].
func (op *Conv1DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input, op.kernel}
}

// Output returns the convolution result.
func (op *Conv1DOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes gradients for input [N, C_in, L] and kernel [C_out, C_in, K].
func (op *Conv1DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inputGrad := backend.Conv1DInputBackward(op.input, op.kernel, outputGrad, op.stride, op.padding)
	kernelGrad := backend.Conv1DKernelBackward(op.input, op.kernel, outputGrad, op.stride, op.padding)
	return []*tensor.RawTensor{inputGrad, kernelGrad}
}
