package dta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/affinity/internal/dta"
	"github.com/born-ml/affinity/internal/nn"
	"github.com/born-ml/affinity/internal/tensor"
)

func TestDeepDTAEncoder_Forward(t *testing.T) {
	backend := newBackend()
	cfg := smallSequenceConfig()
	enc, err := dta.NewDeepDTAEncoder(cfg, seeded(), backend)
	require.NoError(t, err)

	x := sequences(t, backend, cfg, []int32{1, 2, 3, 4, 5, 1}, []int32{5, 5})
	out := enc.Forward(x)

	assert.Equal(t, tensor.Shape{2, 6}, out.Shape())
	assert.Equal(t, 6, enc.OutputDim())
	for _, v := range out.Data() {
		assert.GreaterOrEqual(t, v, float32(0), "pooled ReLU features are non-negative")
	}
}

func TestDeepDTAEncoder_Layers(t *testing.T) {
	backend := newBackend()
	enc, err := dta.NewDeepDTAEncoder(smallSequenceConfig(), seeded(), backend)
	require.NoError(t, err)
	params := enc.Parameters()

	assert.Equal(t, []string{
		"embedding.weight",
		"conv1.weight", "conv1.bias",
		"conv2.weight", "conv2.bias",
		"conv3.weight", "conv3.bias",
	}, paramNames(params))

	// One extra embedding row for the padding label.
	assert.Equal(t, tensor.Shape{6, 12}, shapeOf(t, params, "embedding.weight"))
	// Sequence positions are the input channels of the first convolution.
	assert.Equal(t, tensor.Shape{2, 6, 3}, shapeOf(t, params, "conv1.weight"))
	assert.Equal(t, tensor.Shape{4, 2, 3}, shapeOf(t, params, "conv2.weight"))
	assert.Equal(t, tensor.Shape{6, 4, 3}, shapeOf(t, params, "conv3.weight"))
	assert.Equal(t, 6*12+(36+2)+(24+4)+(72+6), nn.CountParameters(params))
}

func TestDeepDTAEncoder_BatchRowsAreIndependent(t *testing.T) {
	backend := newBackend()
	cfg := smallSequenceConfig()
	enc, err := dta.NewDeepDTAEncoder(cfg, seeded(), backend)
	require.NoError(t, err)

	a, b := []int32{1, 2, 3}, []int32{4, 4, 2, 0, 1, 3}
	both := enc.Forward(sequences(t, backend, cfg, a, b)).Data()
	alone := enc.Forward(sequences(t, backend, cfg, b)).Data()

	assert.InDeltaSlice(t, alone, both[6:], 1e-5)
}

func TestDeepDTAEncoder_Errors(t *testing.T) {
	backend := newBackend()
	cfg := smallSequenceConfig()

	bad := cfg
	bad.EmbeddingDim = 6
	_, err := dta.NewDeepDTAEncoder(bad, nil, backend)
	assert.ErrorIs(t, err, dta.ErrInvalidConfig)

	enc, err := dta.NewDeepDTAEncoder(cfg, nil, backend)
	require.NoError(t, err)

	wrongLength, err := tensor.FromSlice([]int32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)
	assert.PanicsWithValue(t, "deepdta_encoder: expected input [batch, 6], got [1 3]", func() {
		enc.Forward(wrongLength)
	})

	// Label NumEmbeddings+1 is past the end of the embedding table.
	outOfRange, err := tensor.FromSlice([]int32{6, 0, 0, 0, 0, 0}, tensor.Shape{1, 6}, backend)
	require.NoError(t, err)
	assert.PanicsWithValue(t, "embedding: index 6 out of range [0, 6)", func() {
		enc.Forward(outOfRange)
	})
}

func TestSequenceBatch(t *testing.T) {
	backend := newBackend()
	cfg := smallSequenceConfig()

	x, err := dta.SequenceBatch(cfg, [][]int32{{1, 2}, {5, 4, 3, 2, 1, 0}}, backend)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 6}, x.Shape())
	assert.Equal(t, []int32{1, 2, 0, 0, 0, 0, 5, 4, 3, 2, 1, 0}, x.Data())

	_, err = dta.SequenceBatch(cfg, nil, backend)
	assert.ErrorIs(t, err, dta.ErrNoSequences)

	_, err = dta.SequenceBatch(cfg, [][]int32{make([]int32, 7)}, backend)
	assert.ErrorIs(t, err, dta.ErrSequenceTooLong)

	_, err = dta.SequenceBatch(cfg, [][]int32{{1, 6}}, backend)
	assert.ErrorIs(t, err, dta.ErrLabelOutOfRange)
	assert.ErrorContains(t, err, "position 1")

	_, err = dta.SequenceBatch(cfg, [][]int32{{-1}}, backend)
	assert.ErrorIs(t, err, dta.ErrLabelOutOfRange)
}
