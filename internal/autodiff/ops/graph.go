package ops

import "github.com/born-ml/affinity/internal/tensor"

// PropagateOp records graph message passing out[dst] += w * x[src].
//
// The operation is linear in x with matrix A (A[dst, src] = w), so the input
// gradient is A^T applied to the output gradient: the same propagation with
// the edge direction reversed. Edge weights are treated as constants.
type PropagateOp struct {
	unaryOp
	src, dst, weight *tensor.RawTensor
}

// NewPropagateOp creates a new PropagateOp.
func NewPropagateOp(input, src, dst, weight, output *tensor.RawTensor) *PropagateOp {
	return &PropagateOp{
		unaryOp: unaryOp{input: input, output: output},
		src:     src,
		dst:     dst,
		weight:  weight,
	}
}

// Backward propagates outputGrad along reversed edges.
func (op *PropagateOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	numNodes := op.input.Shape()[0]
	return []*tensor.RawTensor{backend.Propagate(outputGrad, op.dst, op.src, op.weight, numNodes)}
}

// SegmentMaxOp records a per-segment feature-wise maximum (global max
// pooling over the graphs of a batch).
//
// Like MaxDimOp, the winning row for every (segment, feature) is fixed at
// record time. Empty segments produced zeros and pass no gradient.
type SegmentMaxOp struct {
	unaryOp
	argmax []int // flat input index per output element, -1 for empty segments
}

// NewSegmentMaxOp creates a new SegmentMaxOp.
func NewSegmentMaxOp(input, segments, output *tensor.RawTensor) *SegmentMaxOp {
	mustFloat(input, "segment_max")
	numSegments := output.Shape()[0]
	features := input.Shape()[1]

	var argmax []int
	switch input.DType() {
	case tensor.Float32:
		argmax = segmentArgmax(input.AsFloat32(), segments.AsInt32(), numSegments, features)
	default:
		argmax = segmentArgmax(input.AsFloat64(), segments.AsInt32(), numSegments, features)
	}
	return &SegmentMaxOp{unaryOp: unaryOp{input: input, output: output}, argmax: argmax}
}

func segmentArgmax[T float32 | float64](x []T, segments []int32, numSegments, features int) []int {
	argmax := make([]int, numSegments*features)
	for i := range argmax {
		argmax[i] = -1
	}
	for r, seg := range segments {
		for f := 0; f < features; f++ {
			slot := int(seg)*features + f
			idx := r*features + f
			if argmax[slot] < 0 || x[idx] > x[argmax[slot]] {
				argmax[slot] = idx
			}
		}
	}
	return argmax
}

// Backward routes each pooled gradient to the row that won the maximum.
func (op *SegmentMaxOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := tensor.MustNewRaw(op.input.Shape(), op.input.DType(), backend.Device())
	switch grad.DType() {
	case tensor.Float32:
		scatterWinners(grad.AsFloat32(), outputGrad.AsFloat32(), op.argmax)
	default:
		scatterWinners(grad.AsFloat64(), outputGrad.AsFloat64(), op.argmax)
	}
	return []*tensor.RawTensor{grad}
}

func scatterWinners[T float32 | float64](dst, src []T, argmax []int) {
	for i, idx := range argmax {
		if idx >= 0 {
			dst[idx] += src[i]
		}
	}
}
