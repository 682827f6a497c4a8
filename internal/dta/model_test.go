package dta_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/affinity/internal/autodiff"
	"github.com/born-ml/affinity/internal/dta"
	"github.com/born-ml/affinity/internal/nn"
	"github.com/born-ml/affinity/internal/optim"
	"github.com/born-ml/affinity/internal/tensor"
)

func smallDeepDTAConfig() dta.DeepDTAConfig {
	target := smallSequenceConfig()
	target.SequenceLength = 9
	target.NumKernels = 3
	return dta.DeepDTAConfig{
		Drug:    smallSequenceConfig(),
		Target:  target,
		Decoder: smallDecoderConfig(),
	}
}

func smallGraphDTAConfig() dta.GraphDTAConfig {
	return dta.GraphDTAConfig{
		Drug:    smallGraphConfig(),
		Target:  smallSequenceConfig(),
		Decoder: smallDecoderConfig(),
	}
}

func TestDeepDTA_Forward(t *testing.T) {
	backend := newBackend()
	cfg := smallDeepDTAConfig()
	model, err := dta.NewDeepDTA(cfg, seeded(), backend)
	require.NoError(t, err)
	model.Train(false)

	drugs := sequences(t, backend, cfg.Drug, []int32{1, 2, 3}, []int32{4, 5})
	targets := sequences(t, backend, cfg.Target, []int32{1, 1, 2, 3, 5}, []int32{2})
	out := model.Forward(drugs, targets)

	assert.Equal(t, tensor.Shape{2, 1}, out.Shape())
	assert.Equal(t, 6, model.DrugEncoder().OutputDim())
	assert.Equal(t, 9, model.TargetEncoder().OutputDim())
}

func TestDeepDTA_ParameterNames(t *testing.T) {
	backend := newBackend()
	model, err := dta.NewDeepDTA(smallDeepDTAConfig(), seeded(), backend)
	require.NoError(t, err)

	names := paramNames(model.Parameters())
	assert.Contains(t, names, "drug.embedding.weight")
	assert.Contains(t, names, "target.conv3.bias")
	assert.Contains(t, names, "decoder.fc4.weight")
	for _, n := range names {
		prefix := strings.SplitN(n, ".", 2)[0]
		assert.Contains(t, []string{"drug", "target", "decoder"}, prefix)
	}
	// Decoder input width is derived from both encoders.
	assert.Equal(t, tensor.Shape{8, 15}, shapeOf(t, model.Parameters(), "decoder.fc1.weight"))
}

func TestDeepDTA_ConfigErrors(t *testing.T) {
	backend := newBackend()

	cfg := smallDeepDTAConfig()
	cfg.Decoder.InDim = 7
	_, err := dta.NewDeepDTA(cfg, nil, backend)
	assert.ErrorIs(t, err, dta.ErrInvalidConfig)

	cfg = smallDeepDTAConfig()
	cfg.Target.KernelLength = 10
	_, err = dta.NewDeepDTA(cfg, nil, backend)
	assert.ErrorIs(t, err, dta.ErrInvalidConfig)
	assert.ErrorContains(t, err, "target encoder")
}

func TestDeepDTA_MismatchedBatchPanics(t *testing.T) {
	backend := newBackend()
	cfg := smallDeepDTAConfig()
	model, err := dta.NewDeepDTA(cfg, seeded(), backend)
	require.NoError(t, err)

	drugs := sequences(t, backend, cfg.Drug, []int32{1}, []int32{2})
	targets := sequences(t, backend, cfg.Target, []int32{1})
	assert.PanicsWithValue(t, "deepdta: 2 drugs for 1 targets", func() { model.Forward(drugs, targets) })
}

func TestGraphDTA_Forward(t *testing.T) {
	backend := newBackend()
	cfg := smallGraphDTAConfig()
	model, err := dta.NewGraphDTA(cfg, seeded(), backend)
	require.NoError(t, err)
	model.Train(false)

	targets := sequences(t, backend, cfg.Target, []int32{1, 2}, []int32{3, 4, 5})
	out := model.Forward(collate(t, chain(), star()), targets)
	assert.Equal(t, tensor.Shape{2, 1}, out.Shape())
	assert.Equal(t, tensor.Shape{8, 10}, shapeOf(t, model.Parameters(), "decoder.fc1.weight"))

	assert.Panics(t, func() { model.Forward(collate(t, chain()), targets) })
}

// trainStep runs one recorded forward/backward pass and an SGD update,
// returning the loss before and after the update.
func trainStep(
	t *testing.T,
	backend testBackend,
	params []*nn.Parameter[testBackend],
	loss func() *tensor.Tensor[float32, testBackend],
) (before, after float32) {
	t.Helper()
	tape := backend.Tape()
	tape.Clear()
	tape.StartRecording()
	l := loss()
	grads := autodiff.Backward(l, backend)
	tape.StopRecording()
	tape.Clear()

	for _, p := range params {
		assert.Containsf(t, grads, p.Tensor().Raw(), "no gradient for %s", p.Name())
	}
	nn.AttachGradients(params, grads)

	optim.NewSGD(params, optim.SGDConfig{LR: 1e-4}).Step(grads)
	return l.Item(), loss().Item()
}

func TestDeepDTA_TrainingStepReducesLoss(t *testing.T) {
	backend := newBackend()
	cfg := smallDeepDTAConfig()
	model, err := dta.NewDeepDTA(cfg, seeded(), backend)
	require.NoError(t, err)
	model.Train(false)

	drugs := sequences(t, backend, cfg.Drug, []int32{1, 2, 3, 4}, []int32{5, 4})
	targets := sequences(t, backend, cfg.Target, []int32{2, 2, 1}, []int32{3, 1, 4, 1, 5})
	affinity, err := tensor.FromSlice([]float32{5, 7}, tensor.Shape{2, 1}, backend)
	require.NoError(t, err)

	before, after := trainStep(t, backend, model.Parameters(), func() *tensor.Tensor[float32, testBackend] {
		return model.Loss(model.Forward(drugs, targets), affinity)
	})
	assert.Less(t, after, before)
}

func TestGraphDTA_TrainingStepReducesLoss(t *testing.T) {
	backend := newBackend()
	cfg := smallGraphDTAConfig()
	model, err := dta.NewGraphDTA(cfg, seeded(), backend)
	require.NoError(t, err)
	model.Train(false)

	drugs := collate(t, chain(), star())
	targets := sequences(t, backend, cfg.Target, []int32{1, 2, 3}, []int32{5})
	affinity, err := tensor.FromSlice([]float32{6, 8}, tensor.Shape{2, 1}, backend)
	require.NoError(t, err)

	before, after := trainStep(t, backend, model.Parameters(), func() *tensor.Tensor[float32, testBackend] {
		return model.Loss(model.Forward(drugs, targets), affinity)
	})
	assert.Less(t, after, before)
}
