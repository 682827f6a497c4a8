package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/affinity/internal/tensor"
)

func TestPropagate(t *testing.T) {
	backend := New()

	// Path graph 0 - 1 - 2 with two features per node.
	x := raw32(t, []float32{1, 10, 2, 20, 3, 30}, 3, 2)
	src := rawInt32(t, []int32{0, 1, 1, 2}, 4)
	dst := rawInt32(t, []int32{1, 0, 2, 1}, 4)
	w := raw32(t, []float32{1, 0.5, 2, 1}, 4)

	out := backend.Propagate(x, src, dst, w, 3)
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, []float32{
		1, 10, // node 0 <- 0.5 * x1
		4, 40, // node 1 <- x0 + x2
		4, 40, // node 2 <- 2 * x1
	}, out.AsFloat32())
}

func TestPropagate_TransposeIsAdjoint(t *testing.T) {
	backend := New()

	x := raw32(t, []float32{1, -2, 3}, 3, 1)
	y := raw32(t, []float32{0.5, 4, -1}, 3, 1)
	src := rawInt32(t, []int32{0, 0, 2, 1}, 4)
	dst := rawInt32(t, []int32{1, 2, 2, 0}, 4)
	w := raw32(t, []float32{0.3, 1.5, -0.7, 2}, 4)

	// <A x, y> == <x, A^T y>
	ax := backend.Propagate(x, src, dst, w, 3).AsFloat32()
	aty := backend.Propagate(y, dst, src, w, 3).AsFloat32()

	var lhs, rhs float32
	for i := range ax {
		lhs += ax[i] * y.AsFloat32()[i]
		rhs += x.AsFloat32()[i] * aty[i]
	}
	assert.InDelta(t, lhs, rhs, 1e-5)
}

func TestPropagate_EdgeOutOfRange(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{1, 2}, 2, 1)
	src := rawInt32(t, []int32{0}, 1)
	dst := rawInt32(t, []int32{5}, 1)
	w := raw32(t, []float32{1}, 1)

	assert.Panics(t, func() { backend.Propagate(x, src, dst, w, 2) })
}

func TestSegmentMax(t *testing.T) {
	backend := New()

	x := raw32(t, []float32{
		1, -5,
		3, -7,
		-2, 4,
		0, 9,
		-1, -1,
	}, 5, 2)
	segments := rawInt32(t, []int32{0, 0, 1, 1, 3}, 5)

	out := backend.SegmentMax(x, segments, 4)
	assert.Equal(t, tensor.Shape{4, 2}, out.Shape())
	assert.Equal(t, []float32{
		3, -5,
		0, 9,
		0, 0, // empty segment
		-1, -1,
	}, out.AsFloat32())
}

func TestSegmentMax_BadSegment(t *testing.T) {
	backend := New()
	x := raw32(t, []float32{1, 2}, 2, 1)

	assert.Panics(t, func() { backend.SegmentMax(x, rawInt32(t, []int32{0, 2}, 2), 2) })
	assert.Panics(t, func() { backend.SegmentMax(x, rawInt32(t, []int32{0}, 1), 2) })
}
