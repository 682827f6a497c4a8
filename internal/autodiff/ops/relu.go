package ops

import "github.com/born-ml/affinity/internal/tensor"

// ReLUOp represents output = max(0, x).
//
// d(ReLU(x))/dx = 1 if x > 0, else 0, so the input gradient is the output
// gradient multiplied by a 0/1 mask of the input.
type ReLUOp struct{ unaryOp }

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{unaryOp{input: input, output: output}}
}

// Backward computes the input gradient for ReLU.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	mustFloat(op.input, "relu")
	mask := tensor.MustNewRaw(op.input.Shape(), op.input.DType(), backend.Device())
	switch mask.DType() {
	case tensor.Float32:
		positiveMask(mask.AsFloat32(), op.input.AsFloat32())
	default:
		positiveMask(mask.AsFloat64(), op.input.AsFloat64())
	}
	return []*tensor.RawTensor{backend.Mul(outputGrad, mask)}
}

func positiveMask[T float32 | float64](mask, input []T) {
	for i, v := range input {
		if v > 0 {
			mask[i] = 1
		}
	}
}
