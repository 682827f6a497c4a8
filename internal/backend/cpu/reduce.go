package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/affinity/internal/tensor"
)

// Sum reduces all elements to a scalar tensor (shape []).
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.MustNewRaw(tensor.Shape{}, x.DType(), cpu.device)
	switch x.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = sum(x.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = sum(x.AsFloat64())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}
	return result
}

func sum[T float](data []T) T {
	var s T
	for _, v := range data {
		s += v
	}
	return s
}

// splitAt decomposes shape around dim into (outer, size, inner) extents.
func splitAt(shape tensor.Shape, dim int) (outer, size, inner int) {
	return tensor.Shape(shape[:dim]).NumElements(), shape[dim], tensor.Shape(shape[dim+1:]).NumElements()
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	return append(shape[:dim:dim], shape[dim+1:]...)
}

// SumDim sums along dim.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("sum_dim", x, dim, keepDim, sumRows[float32], sumRows[float64])
}

// MaxDim takes the maximum along dim.
func (cpu *CPUBackend) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("max_dim", x, dim, keepDim, maxRows[float32], maxRows[float64])
}

func (cpu *CPUBackend) reduceDim(
	name string,
	x *tensor.RawTensor,
	dim int,
	keepDim bool,
	k32 func(out, in []float32, outer, size, inner int),
	k64 func(out, in []float64, outer, size, inner int),
) *tensor.RawTensor {
	shape := x.Shape()
	d, err := shape.NormalizeDim(dim)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	outer, size, inner := splitAt(shape, d)
	result := tensor.MustNewRaw(reducedShape(shape, d, keepDim), x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		k32(result.AsFloat32(), x.AsFloat32(), outer, size, inner)
	case tensor.Float64:
		k64(result.AsFloat64(), x.AsFloat64(), outer, size, inner)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}
	return result
}

func sumRows[T float](out, in []T, outer, size, inner int) {
	for o := 0; o < outer; o++ {
		for s := 0; s < size; s++ {
			row := in[(o*size+s)*inner : (o*size+s+1)*inner]
			dst := out[o*inner : (o+1)*inner]
			for i, v := range row {
				dst[i] += v
			}
		}
	}
}

func maxRows[T float](out, in []T, outer, size, inner int) {
	for o := 0; o < outer; o++ {
		dst := out[o*inner : (o+1)*inner]
		for i := range dst {
			dst[i] = T(math.Inf(-1))
		}
		for s := 0; s < size; s++ {
			row := in[(o*size+s)*inner : (o*size+s+1)*inner]
			for i, v := range row {
				if v > dst[i] {
					dst[i] = v
				}
			}
		}
	}
}
