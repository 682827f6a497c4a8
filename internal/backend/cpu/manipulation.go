package cpu

import (
	"fmt"

	"github.com/born-ml/affinity/internal/tensor"
)

// Reshape returns a copy of t with a new shape.
// One dimension may be -1, in which case it is inferred.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	shape, err := inferShape(newShape, t.NumElements())
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	result, err := t.WithShape(shape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return result
}

func inferShape(shape tensor.Shape, numElements int) (tensor.Shape, error) {
	out := shape.Clone()
	inferred := -1
	known := 1
	for i, d := range out {
		switch {
		case d == -1 && inferred >= 0:
			return nil, fmt.Errorf("only one dimension can be -1, got %v", shape)
		case d == -1:
			inferred = i
		default:
			known *= d
		}
	}
	if inferred >= 0 {
		if known <= 0 || numElements%known != 0 {
			return nil, fmt.Errorf("cannot infer dimension of %v for %d elements", shape, numElements)
		}
		out[inferred] = numElements / known
	}
	return out, nil
}

// Transpose permutes dimensions. With no axes, the dimensions are reversed.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	rank := len(shape)
	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("transpose: %d axes for rank %d tensor", len(axes), rank))
	}

	seen := make([]bool, rank)
	outShape := make(tensor.Shape, rank)
	for i, a := range axes {
		if a < 0 || a >= rank || seen[a] {
			panic(fmt.Sprintf("transpose: invalid permutation %v", axes))
		}
		seen[a] = true
		outShape[i] = shape[a]
	}

	result := tensor.MustNewRaw(outShape, t.DType(), cpu.device)
	elem := t.DType().Size()
	src, dst := t.Data(), result.Data()
	inStrides := t.Strides()

	// permStrides[i] is the input stride of output dimension i.
	permStrides := make([]int, rank)
	for i, a := range axes {
		permStrides[i] = inStrides[a]
	}

	index := make([]int, rank)
	inOff := 0
	for o := 0; o < result.NumElements(); o++ {
		copy(dst[o*elem:(o+1)*elem], src[inOff*elem:(inOff+1)*elem])
		for d := rank - 1; d >= 0; d-- {
			index[d]++
			inOff += permStrides[d]
			if index[d] < outShape[d] {
				break
			}
			inOff -= permStrides[d] * outShape[d]
			index[d] = 0
		}
	}
	return result
}

// Squeeze removes the size-1 dimension at dim.
func (cpu *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	d, err := shape.NormalizeDim(dim)
	if err != nil {
		panic(fmt.Sprintf("squeeze: %v", err))
	}
	if shape[d] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, not 1", d, shape[d]))
	}
	newShape := append(shape[:d:d], shape[d+1:]...)
	return cpu.Reshape(x, newShape)
}

// Unsqueeze inserts a dimension of size 1 at dim.
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	rank := len(shape) + 1
	if dim < 0 {
		dim += rank
	}
	if dim < 0 || dim >= rank {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for shape %v", dim, shape))
	}
	newShape := make(tensor.Shape, 0, rank)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)
	return cpu.Reshape(x, newShape)
}

// Cat concatenates tensors along dim.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}
	first := tensors[0].Shape()
	d, err := first.NormalizeDim(dim)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	outShape := first.Clone()
	outShape[d] = 0
	for i, t := range tensors {
		s := t.Shape()
		if len(s) != len(first) || t.DType() != tensors[0].DType() {
			panic(fmt.Sprintf("cat: tensor %d has shape %v %s, expected rank %d %s",
				i, s, t.DType(), len(first), tensors[0].DType()))
		}
		for j := range s {
			if j != d && s[j] != first[j] {
				panic(fmt.Sprintf("cat: tensor %d shape %v incompatible with %v along dim %d", i, s, first, d))
			}
		}
		outShape[d] += s[d]
	}

	result := tensor.MustNewRaw(outShape, tensors[0].DType(), cpu.device)
	elem := tensors[0].DType().Size()
	outer := tensor.Shape(first[:d]).NumElements()
	inner := tensor.Shape(first[d+1:]).NumElements()
	dst := result.Data()

	off := 0
	for o := 0; o < outer; o++ {
		for _, t := range tensors {
			n := t.Shape()[d] * inner * elem
			copy(dst[off:off+n], t.Data()[o*n:(o+1)*n])
			off += n
		}
	}
	return result
}
