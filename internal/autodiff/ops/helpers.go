package ops

import (
	"fmt"

	"github.com/born-ml/affinity/internal/tensor"
)

// reduceBroadcast sums a gradient back down to the shape of an input that was
// broadcast in the forward pass.
//
//	Forward:  a[3,1] + b[3,4] -> c[3,4]
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, target tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(target) {
		return grad
	}

	result := grad
	for len(result.Shape()) > len(target) {
		result = backend.SumDim(result, 0, false)
	}
	for i, d := range target {
		if d == 1 && result.Shape()[i] != 1 {
			result = backend.SumDim(result, i, true)
		}
	}
	if !result.Shape().Equal(target) {
		result = backend.Reshape(result, target)
	}
	return result
}

// broadcastTo expands grad to shape by adding it onto zeros.
func broadcastTo(grad *tensor.RawTensor, shape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	zeros := tensor.MustNewRaw(shape, grad.DType(), backend.Device())
	return backend.Add(zeros, grad)
}

// narrow copies the slice [start, start+length) of t along dim.
func narrow(t *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := t.Shape()
	outShape := shape.Clone()
	outShape[dim] = length
	result := tensor.MustNewRaw(outShape, t.DType(), t.Device())

	elem := t.DType().Size()
	outer := tensor.Shape(shape[:dim]).NumElements()
	inner := tensor.Shape(shape[dim+1:]).NumElements() * elem
	src, dst := t.Data(), result.Data()
	for o := 0; o < outer; o++ {
		from := (o*shape[dim] + start) * inner
		copy(dst[o*length*inner:(o+1)*length*inner], src[from:from+length*inner])
	}
	return result
}

// mustFloat panics unless t holds floating point data.
func mustFloat(t *tensor.RawTensor, op string) {
	if !t.DType().IsFloat() {
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", op, t.DType()))
	}
}
