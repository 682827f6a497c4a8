package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/affinity/internal/tensor"
)

// Propagate scatters weighted source rows onto destination rows:
//
//	out[dst[e]] += weight[e] * x[src[e]]
//
// It is the aggregation step of a graph convolution. The same kernel with
// src and dst swapped is its gradient with respect to x.
func (cpu *CPUBackend) Propagate(x, src, dst, weight *tensor.RawTensor, numNodes int) *tensor.RawTensor {
	xShape := x.Shape()
	if len(xShape) != 2 {
		panic(fmt.Sprintf("propagate: x must be 2D [N,F], got %v", xShape))
	}
	if src.DType() != tensor.Int32 || dst.DType() != tensor.Int32 {
		panic("propagate: edge endpoints must be int32")
	}
	numEdges := src.NumElements()
	if dst.NumElements() != numEdges || weight.NumElements() != numEdges {
		panic(fmt.Sprintf("propagate: %d sources, %d targets and %d weights", numEdges, dst.NumElements(), weight.NumElements()))
	}
	if weight.DType() != x.DType() {
		panic(fmt.Sprintf("propagate: weight dtype %s != x dtype %s", weight.DType(), x.DType()))
	}
	if numNodes <= 0 {
		panic(fmt.Sprintf("propagate: invalid node count %d", numNodes))
	}

	result := tensor.MustNewRaw(tensor.Shape{numNodes, xShape[1]}, x.DType(), cpu.device)
	switch x.DType() {
	case tensor.Float32:
		propagate(result.AsFloat32(), x.AsFloat32(), src.AsInt32(), dst.AsInt32(), weight.AsFloat32(), xShape[0], numNodes, xShape[1])
	case tensor.Float64:
		propagate(result.AsFloat64(), x.AsFloat64(), src.AsInt32(), dst.AsInt32(), weight.AsFloat64(), xShape[0], numNodes, xShape[1])
	default:
		panic(fmt.Sprintf("propagate: unsupported dtype %s", x.DType()))
	}
	return result
}

func propagate[T float](out, x []T, src, dst []int32, w []T, numSrc, numDst, features int) {
	for e := range src {
		s, d := int(src[e]), int(dst[e])
		if s < 0 || s >= numSrc || d < 0 || d >= numDst {
			panic(fmt.Sprintf("propagate: edge %d (%d -> %d) out of range", e, s, d))
		}
		from := x[s*features : (s+1)*features]
		to := out[d*features : (d+1)*features]
		for f, v := range from {
			to[f] += w[e] * v
		}
	}
}

// SegmentMax takes the feature-wise maximum of the rows that share a segment
// id. Segments with no rows produce zeros.
func (cpu *CPUBackend) SegmentMax(x, segments *tensor.RawTensor, numSegments int) *tensor.RawTensor {
	xShape := x.Shape()
	if len(xShape) != 2 {
		panic(fmt.Sprintf("segment_max: x must be 2D [N,F], got %v", xShape))
	}
	if segments.DType() != tensor.Int32 || segments.NumElements() != xShape[0] {
		panic(fmt.Sprintf("segment_max: need one int32 segment id per row, got %d %s for %d rows",
			segments.NumElements(), segments.DType(), xShape[0]))
	}
	if numSegments <= 0 {
		panic(fmt.Sprintf("segment_max: invalid segment count %d", numSegments))
	}

	result := tensor.MustNewRaw(tensor.Shape{numSegments, xShape[1]}, x.DType(), cpu.device)
	switch x.DType() {
	case tensor.Float32:
		segmentMax(result.AsFloat32(), x.AsFloat32(), segments.AsInt32(), numSegments, xShape[1])
	case tensor.Float64:
		segmentMax(result.AsFloat64(), x.AsFloat64(), segments.AsInt32(), numSegments, xShape[1])
	default:
		panic(fmt.Sprintf("segment_max: unsupported dtype %s", x.DType()))
	}
	return result
}

func segmentMax[T float](out, x []T, segments []int32, numSegments, features int) {
	for i := range out {
		out[i] = T(math.Inf(-1))
	}
	filled := make([]bool, numSegments)
	for r, seg := range segments {
		s := int(seg)
		if s < 0 || s >= numSegments {
			panic(fmt.Sprintf("segment_max: row %d has segment %d, expected [0, %d)", r, s, numSegments))
		}
		filled[s] = true
		row := x[r*features : (r+1)*features]
		dst := out[s*features : (s+1)*features]
		for f, v := range row {
			if v > dst[f] {
				dst[f] = v
			}
		}
	}
	for s, ok := range filled {
		if !ok {
			clear(out[s*features : (s+1)*features])
		}
	}
}
