package ops

import (
	"github.com/born-ml/affinity/internal/tensor"
)

// SumOp represents the full reduction output = Σ x.
// Every input element receives the scalar output gradient.
type SumOp struct{ unaryOp }

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{unaryOp{input: input, output: output}}
}

// Backward broadcasts the scalar gradient to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{broadcastTo(outputGrad, op.input.Shape(), backend)}
}

// SumDimOp represents a sum along one dimension.
type SumDimOp struct {
	unaryOp
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp. dim must already be non-negative.
func NewSumDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{unaryOp: unaryOp{input: input, output: output}, dim: dim, keepDim: keepDim}
}

// Backward broadcasts the gradient back along the reduced dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := outputGrad
	if !op.keepDim {
		grad = backend.Unsqueeze(grad, op.dim)
	}
	return []*tensor.RawTensor{broadcastTo(grad, op.input.Shape(), backend)}
}

// MaxDimOp represents a maximum along one dimension.
//
// Only the first position holding the maximum in each reduced slice receives
// gradient, so the winning indices are computed once at record time.
type MaxDimOp struct {
	unaryOp
	dim    int
	argmax []int // flat input index of the winner for every output element
}

// NewMaxDimOp creates a new MaxDimOp. dim must already be non-negative.
func NewMaxDimOp(input, output *tensor.RawTensor, dim int) *MaxDimOp {
	mustFloat(input, "max_dim")
	shape := input.Shape()
	outer := tensor.Shape(shape[:dim]).NumElements()
	size := shape[dim]
	inner := tensor.Shape(shape[dim+1:]).NumElements()

	var argmax []int
	switch input.DType() {
	case tensor.Float32:
		argmax = argmaxAlong(input.AsFloat32(), outer, size, inner)
	default:
		argmax = argmaxAlong(input.AsFloat64(), outer, size, inner)
	}

	return &MaxDimOp{unaryOp: unaryOp{input: input, output: output}, dim: dim, argmax: argmax}
}

func argmaxAlong[T float32 | float64](data []T, outer, size, inner int) []int {
	argmax := make([]int, outer*inner)
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			best := o*size*inner + i
			for s := 1; s < size; s++ {
				idx := (o*size+s)*inner + i
				if data[idx] > data[best] {
					best = idx
				}
			}
			argmax[o*inner+i] = best
		}
	}
	return argmax
}

// Backward routes each output gradient to its argmax position.
func (op *MaxDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := tensor.MustNewRaw(op.input.Shape(), op.input.DType(), backend.Device())
	switch grad.DType() {
	case tensor.Float32:
		scatterByIndex(grad.AsFloat32(), outputGrad.AsFloat32(), op.argmax)
	default:
		scatterByIndex(grad.AsFloat64(), outputGrad.AsFloat64(), op.argmax)
	}
	return []*tensor.RawTensor{grad}
}

func scatterByIndex[T float32 | float64](dst, src []T, index []int) {
	for i, idx := range index {
		dst[idx] += src[i]
	}
}
