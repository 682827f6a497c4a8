package ops

import (
	"github.com/born-ml/affinity/internal/tensor"
)

// EmbeddingOp represents output[i] = weight[indices[i]].
//
// Backward is a scatter-add: every output row's gradient is accumulated into
// the weight row it was read from, so repeated indices sum.
//
//	indices     = [0, 1, 0]
//	grad_output = [[1,2], [3,4], [5,6]]
//	grad_weight = [[6,8], [3,4], ...]
type EmbeddingOp struct {
	weight  *tensor.RawTensor
	indices *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewEmbeddingOp creates a new EmbeddingOp.
func NewEmbeddingOp(weight, indices, output *tensor.RawTensor) *EmbeddingOp {
	return &EmbeddingOp{weight: weight, indices: indices, output: output}
}

// Inputs returns [weight]; integer indices carry no gradient.
func (op *EmbeddingOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.weight}
}

// Output returns the gathered embeddings.
func (op *EmbeddingOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward scatters outputGrad rows into a weight-shaped gradient.
func (op *EmbeddingOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	mustFloat(op.weight, "embedding backward")
	grad := tensor.MustNewRaw(op.weight.Shape(), op.weight.DType(), backend.Device())
	dim := op.weight.Shape()[1]
	indices := op.indices.AsInt32()

	switch grad.DType() {
	case tensor.Float32:
		scatterRows(grad.AsFloat32(), outputGrad.AsFloat32(), indices, dim)
	default:
		scatterRows(grad.AsFloat64(), outputGrad.AsFloat64(), indices, dim)
	}
	return []*tensor.RawTensor{grad}
}

func scatterRows[T float32 | float64](dst, src []T, indices []int32, dim int) {
	for i, idx := range indices {
		row := dst[int(idx)*dim : (int(idx)+1)*dim]
		for j, v := range src[i*dim : (i+1)*dim] {
			row[j] += v
		}
	}
}
