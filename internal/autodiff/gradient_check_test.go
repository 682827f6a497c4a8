package autodiff_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/affinity/internal/autodiff"
	"github.com/born-ml/affinity/internal/backend/cpu"
	"github.com/born-ml/affinity/internal/tensor"
)

// forwardFunc builds a computation from float64 inputs on the given backend.
type forwardFunc func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor

// projectedLoss reduces out to a scalar by a fixed random projection so that
// every output element contributes a distinct weight to the gradient.
func projectedLoss(b tensor.Backend, out *tensor.RawTensor) *tensor.RawTensor {
	rng := rand.New(rand.NewSource(99))
	proj := tensor.MustNewRaw(out.Shape(), tensor.Float64, b.Device())
	for i := range proj.AsFloat64() {
		proj.AsFloat64()[i] = rng.NormFloat64()
	}
	return b.Sum(b.Mul(out, proj))
}

func randomInput(rng *rand.Rand, shape ...int) *tensor.RawTensor {
	raw := tensor.MustNewRaw(tensor.Shape(shape), tensor.Float64, tensor.CPU)
	for i := range raw.AsFloat64() {
		raw.AsFloat64()[i] = rng.NormFloat64()
	}
	return raw
}

// checkGradients compares tape gradients against central differences for
// every element of every input.
func checkGradients(t *testing.T, f forwardFunc, inputs ...*tensor.RawTensor) {
	t.Helper()
	const eps = 1e-6

	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	loss := projectedLoss(backend, f(backend, inputs))
	grads := autodiff.Backward(tensor.New[float64](loss, backend), backend)

	plain := cpu.New()
	eval := func() float64 {
		return projectedLoss(plain, f(plain, inputs)).AsFloat64()[0]
	}

	for i, in := range inputs {
		grad, ok := grads[in]
		require.Truef(t, ok, "input %d received no gradient", i)
		data := in.AsFloat64()
		for j := range data {
			orig := data[j]
			data[j] = orig + eps
			plus := eval()
			data[j] = orig - eps
			minus := eval()
			data[j] = orig

			want := (plus - minus) / (2 * eps)
			got := grad.AsFloat64()[j]
			require.InDeltaf(t, want, got, 1e-5*math.Max(1, math.Abs(want)),
				"input %d element %d", i, j)
		}
	}
}

func TestGradientCheck_Elementwise(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	t.Run("AddBroadcast", func(t *testing.T) {
		checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.Add(in[0], in[1])
		}, randomInput(rng, 3, 4), randomInput(rng, 4))
	})

	t.Run("SubBroadcastColumn", func(t *testing.T) {
		checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.Sub(in[0], in[1])
		}, randomInput(rng, 3, 4), randomInput(rng, 3, 1))
	})

	t.Run("Mul", func(t *testing.T) {
		checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.Mul(in[0], in[1])
		}, randomInput(rng, 2, 3), randomInput(rng, 2, 3))
	})

	t.Run("Scalars", func(t *testing.T) {
		checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.AddScalar(b.MulScalar(in[0], -2.5), 4)
		}, randomInput(rng, 5))
	})

	t.Run("ReLU", func(t *testing.T) {
		checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.ReLU(in[0])
		}, randomInput(rng, 4, 3))
	})
}

func TestGradientCheck_MatMulTranspose(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	// x @ W^T + bias, the Linear layer computation.
	checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
		return b.Add(b.MatMul(in[0], b.Transpose(in[1])), in[2])
	}, randomInput(rng, 3, 4), randomInput(rng, 5, 4), randomInput(rng, 5))
}

func TestGradientCheck_ShapeOps(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	t.Run("ReshapeSqueezeUnsqueeze", func(t *testing.T) {
		checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			x := b.Reshape(in[0], tensor.Shape{3, -1})
			return b.Squeeze(b.Unsqueeze(x, 1), 1)
		}, randomInput(rng, 2, 3, 2))
	})

	t.Run("TransposeAxes", func(t *testing.T) {
		checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.Transpose(in[0], 1, 2, 0)
		}, randomInput(rng, 2, 3, 4))
	})

	t.Run("Cat", func(t *testing.T) {
		checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.Cat([]*tensor.RawTensor{in[0], in[1]}, -1)
		}, randomInput(rng, 2, 3), randomInput(rng, 2, 5))
	})
}

func TestGradientCheck_Reductions(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	t.Run("SumDim", func(t *testing.T) {
		checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.SumDim(in[0], 1, false)
		}, randomInput(rng, 2, 3, 4))
	})

	t.Run("SumDimKeep", func(t *testing.T) {
		checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.SumDim(in[0], -1, true)
		}, randomInput(rng, 3, 4))
	})

	t.Run("MaxDim", func(t *testing.T) {
		checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
			return b.MaxDim(in[0], 2, true)
		}, randomInput(rng, 2, 3, 5))
	})
}

func TestGradientCheck_Conv1D(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
		return b.ReLU(b.Conv1D(in[0], in[1], 1, 0))
	}, randomInput(rng, 2, 3, 7), randomInput(rng, 4, 3, 3))
}

func TestGradientCheck_Graph(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	src := tensor.MustNewRaw(tensor.Shape{5}, tensor.Int32, tensor.CPU)
	dst := tensor.MustNewRaw(tensor.Shape{5}, tensor.Int32, tensor.CPU)
	copy(src.AsInt32(), []int32{0, 1, 2, 3, 0})
	copy(dst.AsInt32(), []int32{1, 0, 3, 2, 0})
	weight := randomInput(rng, 5)
	segments := tensor.MustNewRaw(tensor.Shape{4}, tensor.Int32, tensor.CPU)
	copy(segments.AsInt32(), []int32{0, 0, 1, 1})

	checkGradients(t, func(b tensor.Backend, in []*tensor.RawTensor) *tensor.RawTensor {
		h := b.Propagate(in[0], src, dst, weight, 4)
		return b.SegmentMax(h, segments, 3) // segment 2 is empty
	}, randomInput(rng, 4, 3))
}
