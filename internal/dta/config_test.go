package dta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/affinity/internal/dta"
)

func TestDefaultConfigs(t *testing.T) {
	assert.NoError(t, dta.DefaultDrugSequenceConfig().Validate())
	assert.NoError(t, dta.DefaultTargetSequenceConfig().Validate())
	assert.NoError(t, dta.DefaultGraphEncoderConfig().Validate())
	assert.NoError(t, dta.DefaultDecoderConfig(192).Validate())

	g := dta.DefaultGraphEncoderConfig()
	assert.Equal(t, 78, g.InChannels)
	assert.Equal(t, 128, g.OutChannels)
	assert.InDelta(t, 0.2, g.DropoutRate, 1e-12)
	assert.InDelta(t, 0.1, dta.DefaultDecoderConfig(1).DropoutRate, 1e-12)

	deep := dta.DefaultDeepDTAConfig()
	assert.Equal(t, 96+96, deep.Decoder.InDim)
	graphCfg := dta.DefaultGraphDTAConfig()
	assert.Equal(t, 128+96, graphCfg.Decoder.InDim)
}

func TestSequenceEncoderConfig_Validate(t *testing.T) {
	base := smallSequenceConfig()

	tests := []struct {
		name   string
		mutate func(*dta.SequenceEncoderConfig)
		valid  bool
	}{
		{"Base", func(*dta.SequenceEncoderConfig) {}, true},
		// 7 - 3*(3-1) = 1 position survives the third convolution.
		{"SmallestEmbedding", func(c *dta.SequenceEncoderConfig) { c.EmbeddingDim = 7 }, true},
		{"EmbeddingTooSmall", func(c *dta.SequenceEncoderConfig) { c.EmbeddingDim = 6 }, false},
		{"KernelOne", func(c *dta.SequenceEncoderConfig) { c.EmbeddingDim, c.KernelLength = 1, 1 }, true},
		{"ZeroEmbeddings", func(c *dta.SequenceEncoderConfig) { c.NumEmbeddings = 0 }, false},
		{"ZeroLength", func(c *dta.SequenceEncoderConfig) { c.SequenceLength = 0 }, false},
		{"ZeroKernels", func(c *dta.SequenceEncoderConfig) { c.NumKernels = 0 }, false},
		{"ZeroKernelLength", func(c *dta.SequenceEncoderConfig) { c.KernelLength = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, dta.ErrInvalidConfig)
			}
		})
	}
}

func TestGraphAndDecoderConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, dta.GraphEncoderConfig{InChannels: 0, OutChannels: 1}.Validate(), dta.ErrInvalidConfig)
	assert.ErrorIs(t, dta.GraphEncoderConfig{InChannels: 1, OutChannels: 1, DropoutRate: 1.01}.Validate(), dta.ErrInvalidConfig)
	assert.NoError(t, dta.GraphEncoderConfig{InChannels: 1, OutChannels: 1, DropoutRate: 1}.Validate())
	assert.NoError(t, dta.DecoderConfig{InDim: 1, HiddenDim: 1, OutDim: 1, DropoutRate: 1}.Validate())
	assert.ErrorIs(t, dta.DecoderConfig{InDim: 1, HiddenDim: 0, OutDim: 1}.Validate(), dta.ErrInvalidConfig)
	assert.ErrorIs(t, dta.DecoderConfig{InDim: 1, HiddenDim: 1, OutDim: 1, DropoutRate: -0.1}.Validate(), dta.ErrInvalidConfig)
	assert.NoError(t, dta.DecoderConfig{InDim: 1, HiddenDim: 1, OutDim: 1}.Validate())
}
