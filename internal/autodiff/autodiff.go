// Package autodiff implements reverse-mode automatic differentiation with the
// decorator pattern.
//
// AutodiffBackend wraps any tensor.Backend and records every differentiable
// operation on a GradientTape while recording is enabled:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
//	y := x.Mul(x) // y = x²
//
//	grads := autodiff.Backward(y, backend)
//	fmt.Println(grads[x.Raw()]) // dy/dx = 2x = 4
package autodiff

import (
	"fmt"

	"github.com/born-ml/affinity/internal/autodiff/ops"
	"github.com/born-ml/affinity/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements tensor.Backend and records operations in a GradientTape.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

func (b *AutodiffBackend[B]) record(op ops.Operation) {
	if b.tape.IsRecording() {
		b.tape.Record(op)
	}
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(a, c)
	b.record(ops.NewAddOp(a, c, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(a, c)
	b.record(ops.NewSubOp(a, c, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(a, c)
	b.record(ops.NewMulOp(a, c, result))
	return result
}

// MulScalar multiplies by a scalar and records the operation.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result := b.inner.MulScalar(x, scalar)
	b.record(ops.NewMulScalarOp(x, result, scalar))
	return result
}

// AddScalar adds a scalar and records the operation.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result := b.inner.AddScalar(x, scalar)
	b.record(ops.NewAddScalarOp(x, result))
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(a, c *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(a, c)
	b.record(ops.NewMatMulOp(a, c, result))
	return result
}

// Conv1D performs a 1D convolution and records the operation.
func (b *AutodiffBackend[B]) Conv1D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	result := b.inner.Conv1D(input, kernel, stride, padding)
	b.record(ops.NewConv1DOp(input, kernel, result, stride, padding))
	return result
}

// Conv1DInputBackward delegates to the wrapped backend without recording.
func (b *AutodiffBackend[B]) Conv1DInputBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.inner.Conv1DInputBackward(input, kernel, grad, stride, padding)
}

// Conv1DKernelBackward delegates to the wrapped backend without recording.
func (b *AutodiffBackend[B]) Conv1DKernelBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.inner.Conv1DKernelBackward(input, kernel, grad, stride, padding)
}

// Reshape changes the shape and records the operation.
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(t, newShape)
	b.record(ops.NewReshapeOp(t, result))
	return result
}

// Transpose permutes dimensions and records the operation.
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	result := b.inner.Transpose(t, axes...)
	b.record(ops.NewTransposeOp(t, result, axes))
	return result
}

// Squeeze removes a size-1 dimension and records the operation.
func (b *AutodiffBackend[B]) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	result := b.inner.Squeeze(x, dim)
	b.record(ops.NewReshapeOp(x, result))
	return result
}

// Unsqueeze inserts a size-1 dimension and records the operation.
func (b *AutodiffBackend[B]) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	result := b.inner.Unsqueeze(x, dim)
	b.record(ops.NewReshapeOp(x, result))
	return result
}

// Cat concatenates tensors and records the operation.
func (b *AutodiffBackend[B]) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	result := b.inner.Cat(tensors, dim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewCatOp(tensors, result, mustNormalize(result.Shape(), dim, "cat")))
	}
	return result
}

// Sum reduces all elements and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sum(x)
	b.record(ops.NewSumOp(x, result))
	return result
}

// SumDim sums along one dimension and records the operation.
func (b *AutodiffBackend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := b.inner.SumDim(x, dim, keepDim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSumDimOp(x, result, mustNormalize(x.Shape(), dim, "sum_dim"), keepDim))
	}
	return result
}

// MaxDim takes the maximum along one dimension and records the operation.
func (b *AutodiffBackend[B]) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := b.inner.MaxDim(x, dim, keepDim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMaxDimOp(x, result, mustNormalize(x.Shape(), dim, "max_dim")))
	}
	return result
}

// ReLU applies max(0, x) and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.ReLU(x)
	b.record(ops.NewReLUOp(x, result))
	return result
}

// Embedding gathers weight rows and records the operation.
func (b *AutodiffBackend[B]) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Embedding(weight, indices)
	b.record(ops.NewEmbeddingOp(weight, indices, result))
	return result
}

// Propagate performs weighted message passing and records the operation.
func (b *AutodiffBackend[B]) Propagate(x, src, dst, weight *tensor.RawTensor, numNodes int) *tensor.RawTensor {
	result := b.inner.Propagate(x, src, dst, weight, numNodes)
	b.record(ops.NewPropagateOp(x, src, dst, weight, result))
	return result
}

// SegmentMax pools rows per segment and records the operation.
func (b *AutodiffBackend[B]) SegmentMax(x, segments *tensor.RawTensor, numSegments int) *tensor.RawTensor {
	result := b.inner.SegmentMax(x, segments, numSegments)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSegmentMaxOp(x, segments, result))
	}
	return result
}

func mustNormalize(shape tensor.Shape, dim int, op string) int {
	d, err := shape.NormalizeDim(dim)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	return d
}
