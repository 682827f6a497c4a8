package nn_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/affinity/internal/autodiff"
	"github.com/born-ml/affinity/internal/nn"
	"github.com/born-ml/affinity/internal/tensor"
)

func TestLinear_Forward(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(2, 3, nil, backend)
	setData(t, layer.Weight(), []float32{1, 0, 0, 1, 1, 1})
	setData(t, layer.Bias(), []float32{0.5, -0.5, 0})

	x := fromSlice(t, backend, []float32{1, 2, 3, 4}, 2, 2)
	out := layer.Forward(x)

	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{1.5, 1.5, 3, 3.5, 3.5, 7}, out.Data())
	assert.Equal(t, 2, layer.InFeatures())
	assert.Equal(t, 3, layer.OutFeatures())
}

func TestLinear_Init(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(4, 50, rand.New(rand.NewSource(1)), backend)

	// U(-1/sqrt(4), 1/sqrt(4)) for weight and bias.
	for _, p := range layer.Parameters() {
		nonZero := 0
		for _, v := range p.Tensor().Data() {
			assert.LessOrEqual(t, v, float32(0.5))
			assert.GreaterOrEqual(t, v, float32(-0.5))
			if v != 0 {
				nonZero++
			}
		}
		assert.Greater(t, nonZero, 0, p.Name())
	}
}

func TestLinear_ShapeErrors(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(2, 3, nil, backend)

	assert.PanicsWithValue(t, "linear: expected input with 2 features, got 3", func() {
		layer.Forward(fromSlice(t, backend, make([]float32, 3), 1, 3))
	})
	assert.Panics(t, func() {
		layer.Forward(fromSlice(t, backend, make([]float32, 2), 2))
	})
	assert.Panics(t, func() { nn.NewLinear(0, 3, nil, backend) })
}

func TestLinear_Gradients(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(2, 1, nil, backend)
	setData(t, layer.Weight(), []float32{2, -1})

	backend.Tape().StartRecording()
	x := fromSlice(t, backend, []float32{1, 2, 3, 4}, 2, 2)
	loss := layer.Forward(x).Sum()
	grads := autodiff.Backward(loss, backend)
	nn.AttachGradients(layer.Parameters(), grads)

	// d/dW sum(xW^T + b) = column sums of x, d/db = batch size.
	assert.Equal(t, []float32{4, 6}, layer.Weight().Grad().Data())
	assert.Equal(t, []float32{2}, layer.Bias().Grad().Data())
}

func TestEmbedding_Forward(t *testing.T) {
	backend := newBackend()
	embed := nn.NewEmbedding(3, 2, nil, backend)
	setData(t, embed.Weight, []float32{0, 0, 1, 2, 3, 4})

	ids := fromSlice(t, backend, []int32{2, 1, 0, 2}, 2, 2)
	out := embed.Forward(ids)

	assert.Equal(t, tensor.Shape{2, 2, 2}, out.Shape())
	assert.Equal(t, []float32{3, 4, 1, 2, 0, 0, 3, 4}, out.Data())
	assert.Len(t, embed.Parameters(), 1)
}

func TestEmbedding_OutOfRangePanics(t *testing.T) {
	backend := newBackend()
	embed := nn.NewEmbedding(3, 2, nil, backend)
	ids := fromSlice(t, backend, []int32{3}, 1)
	assert.PanicsWithValue(t, "embedding: index 3 out of range [0, 3)", func() { embed.Forward(ids) })
}

func TestConv1D_Forward(t *testing.T) {
	backend := newBackend()
	conv := nn.NewConv1D(2, 1, 2, nil, backend)
	setData(t, conv.Weight(), []float32{1, 1, 0, -1})
	setData(t, conv.Bias(), []float32{10})

	// channel 0: 1 2 3, channel 1: 4 5 6
	x := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, 1, 2, 3)
	out := conv.Forward(x)

	assert.Equal(t, tensor.Shape{1, 1, 2}, out.Shape())
	// l=0: (1+2) - 5 + 10, l=1: (2+3) - 6 + 10
	assert.Equal(t, []float32{8, 9}, out.Data())
	assert.Equal(t, 2, conv.OutputLength(3))
}

func TestConv1D_ShapeErrors(t *testing.T) {
	backend := newBackend()
	conv := nn.NewConv1D(2, 4, 3, nil, backend)

	assert.Panics(t, func() { conv.Forward(fromSlice(t, backend, make([]float32, 6), 2, 3)) })
	assert.PanicsWithValue(t, "conv1d: expected 2 input channels, got 1", func() {
		conv.Forward(fromSlice(t, backend, make([]float32, 5), 1, 1, 5))
	})
	assert.PanicsWithValue(t, "conv1d: input length 2 too short for kernel 3", func() {
		conv.Forward(fromSlice(t, backend, make([]float32, 4), 1, 2, 2))
	})
	assert.Panics(t, func() { nn.NewConv1DWithOptions(2, 4, 3, 0, 0, nil, backend) })
}

func TestGlobalMaxPool1D(t *testing.T) {
	backend := newBackend()
	pool := nn.NewGlobalMaxPool1D[testBackend]()

	x := fromSlice(t, backend, []float32{1, 5, 2, -1, -3, -2}, 1, 2, 3)
	out := pool.Forward(x)

	assert.Equal(t, tensor.Shape{1, 2, 1}, out.Shape())
	assert.Equal(t, []float32{5, -1}, out.Data())
	assert.Nil(t, pool.Parameters())
}

func TestDropout(t *testing.T) {
	backend := newBackend()
	x := tensor.Ones[float32](tensor.Shape{1000}, backend)

	t.Run("Training", func(t *testing.T) {
		d := nn.NewDropout[testBackend](0.25, rand.New(rand.NewSource(1)))
		assert.True(t, d.Training())

		out := d.Forward(x).Data()
		zeros := 0
		for _, v := range out {
			if v == 0 {
				zeros++
			} else {
				assert.InDelta(t, 1/0.75, v, 1e-6)
			}
		}
		assert.InDelta(t, 250, zeros, 60)
	})

	t.Run("Eval", func(t *testing.T) {
		d := nn.NewDropout[testBackend](0.5, nil)
		d.Train(false)
		assert.Same(t, x, d.Forward(x))
	})

	t.Run("RateOne", func(t *testing.T) {
		d := nn.NewDropout[testBackend](1, nil)
		for _, v := range d.Forward(x).Data() {
			assert.Zero(t, v)
		}
	})

	t.Run("InvalidRate", func(t *testing.T) {
		assert.Panics(t, func() { nn.NewDropout[testBackend](1.5, nil) })
	})
}

func TestMSELoss(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	pred := fromSlice(t, backend, []float32{1, 2, 3, 4}, 4, 1)
	target := fromSlice(t, backend, []float32{1, 0, 3, 1}, 4, 1)

	loss := nn.NewMSELoss[testBackend]().Forward(pred, target)
	assert.Equal(t, tensor.Shape{}, loss.Shape())
	assert.InDelta(t, (0+4+0+9)/4.0, loss.Item(), 1e-6)

	grads := autodiff.Backward(loss, backend)
	// d/dpred = 2(pred - target)/n
	assert.Equal(t, []float32{0, 1, 0, 1.5}, grads[pred.Raw()].AsFloat32())

	assert.Panics(t, func() {
		nn.NewMSELoss[testBackend]().Forward(pred, fromSlice(t, backend, []float32{1}, 1, 1))
	})
}

func TestSequential(t *testing.T) {
	backend := newBackend()
	dropout := nn.NewDropout[testBackend](0.5, nil)
	seq := nn.NewSequential[testBackend](
		nn.NewLinear(3, 4, nil, backend),
		nn.NewReLU[testBackend](),
	)
	seq.Add(dropout)

	assert.Equal(t, 3, seq.Len())
	assert.Len(t, seq.Parameters(), 2)

	seq.Train(false)
	assert.False(t, dropout.Training())

	out := seq.Forward(tensor.Ones[float32](tensor.Shape{2, 3}, backend))
	assert.Equal(t, tensor.Shape{2, 4}, out.Shape())
	for _, v := range out.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
	}
	assert.Panics(t, func() { seq.Module(3) })
}

func TestReLU(t *testing.T) {
	backend := newBackend()
	out := nn.NewReLU[testBackend]().Forward(fromSlice(t, backend, []float32{-1, 0, 2}, 3))
	require.Equal(t, []float32{0, 0, 2}, out.Data())
}
