package cpu

import (
	"fmt"

	"github.com/born-ml/affinity/internal/tensor"
)

// Embedding gathers rows of weight [V, D] for every int32 index.
// The output shape is indices.Shape() + [D].
func (cpu *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	wShape := weight.Shape()
	if len(wShape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D [V,D], got %v", wShape))
	}
	if indices.DType() != tensor.Int32 {
		panic(fmt.Sprintf("embedding: indices must be int32, got %s", indices.DType()))
	}

	numEmbed, dim := wShape[0], wShape[1]
	outShape := append(indices.Shape().Clone(), dim)
	result := tensor.MustNewRaw(outShape, weight.DType(), cpu.device)

	rowBytes := dim * weight.DType().Size()
	src, dst := weight.Data(), result.Data()
	for i, idx := range indices.AsInt32() {
		if idx < 0 || int(idx) >= numEmbed {
			panic(fmt.Sprintf("embedding: index %d out of range [0, %d)", idx, numEmbed))
		}
		copy(dst[i*rowBytes:(i+1)*rowBytes], src[int(idx)*rowBytes:(int(idx)+1)*rowBytes])
	}
	return result
}
