package dta

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid config")

// SequenceEncoderConfig configures a DeepDTAEncoder.
type SequenceEncoderConfig struct {
	NumEmbeddings  int `yaml:"num_embeddings"`  // number of labels; index 0 is reserved for padding
	EmbeddingDim   int `yaml:"embedding_dim"`   // width of each label embedding
	SequenceLength int `yaml:"sequence_length"` // fixed (padded) input length
	NumKernels     int `yaml:"num_kernels"`     // filters in the first convolution
	KernelLength   int `yaml:"kernel_length"`   // width of every convolution kernel
}

// DefaultDrugSequenceConfig returns the DeepDTA settings for SMILES strings:
// 64 characters, 85 positions.
func DefaultDrugSequenceConfig() SequenceEncoderConfig {
	return SequenceEncoderConfig{
		NumEmbeddings:  64,
		EmbeddingDim:   128,
		SequenceLength: 85,
		NumKernels:     32,
		KernelLength:   8,
	}
}

// DefaultTargetSequenceConfig returns the DeepDTA settings for protein
// sequences: 25 amino acid labels, 1200 positions.
func DefaultTargetSequenceConfig() SequenceEncoderConfig {
	return SequenceEncoderConfig{
		NumEmbeddings:  25,
		EmbeddingDim:   128,
		SequenceLength: 1200,
		NumKernels:     32,
		KernelLength:   8,
	}
}

// Validate checks that all sizes are positive and that three valid
// convolutions fit into the embedding axis.
func (c SequenceEncoderConfig) Validate() error {
	switch {
	case c.NumEmbeddings <= 0:
		return fmt.Errorf("%w: num_embeddings must be positive, got %d", ErrInvalidConfig, c.NumEmbeddings)
	case c.EmbeddingDim <= 0:
		return fmt.Errorf("%w: embedding_dim must be positive, got %d", ErrInvalidConfig, c.EmbeddingDim)
	case c.SequenceLength <= 0:
		return fmt.Errorf("%w: sequence_length must be positive, got %d", ErrInvalidConfig, c.SequenceLength)
	case c.NumKernels <= 0:
		return fmt.Errorf("%w: num_kernels must be positive, got %d", ErrInvalidConfig, c.NumKernels)
	case c.KernelLength <= 0:
		return fmt.Errorf("%w: kernel_length must be positive, got %d", ErrInvalidConfig, c.KernelLength)
	}
	// The convolutions slide over the embedding axis.
	if c.EmbeddingDim-3*(c.KernelLength-1) < 1 {
		return fmt.Errorf("%w: embedding_dim %d too small for three convolutions with kernel_length %d",
			ErrInvalidConfig, c.EmbeddingDim, c.KernelLength)
	}
	return nil
}

// OutputDim returns the encoder's feature width, 3 * NumKernels.
func (c SequenceEncoderConfig) OutputDim() int {
	return 3 * c.NumKernels
}

// GraphEncoderConfig configures a DrugGCNEncoder.
type GraphEncoderConfig struct {
	InChannels  int     `yaml:"in_channels"`
	OutChannels int     `yaml:"out_channels"`
	DropoutRate float64 `yaml:"dropout_rate"`
}

// DefaultGraphEncoderConfig returns the GraphDTA settings: 78 atom features,
// 128 output features and dropout 0.2.
func DefaultGraphEncoderConfig() GraphEncoderConfig {
	return GraphEncoderConfig{
		InChannels:  78,
		OutChannels: 128,
		DropoutRate: 0.2,
	}
}

// Validate checks channel counts and the dropout rate.
func (c GraphEncoderConfig) Validate() error {
	if c.InChannels <= 0 || c.OutChannels <= 0 {
		return fmt.Errorf("%w: channels must be positive, got in=%d out=%d", ErrInvalidConfig, c.InChannels, c.OutChannels)
	}
	return validateRate(c.DropoutRate)
}

// DecoderConfig configures an MLPDecoder.
type DecoderConfig struct {
	InDim       int     `yaml:"in_dim"`
	HiddenDim   int     `yaml:"hidden_dim"`
	OutDim      int     `yaml:"out_dim"`
	DropoutRate float64 `yaml:"dropout_rate"`
}

// DefaultDecoderConfig returns the DeepDTA head (1024, 1024, 512, 1) for
// the given input width, with dropout 0.1.
func DefaultDecoderConfig(inDim int) DecoderConfig {
	return DecoderConfig{
		InDim:       inDim,
		HiddenDim:   1024,
		OutDim:      512,
		DropoutRate: 0.1,
	}
}

// Validate checks layer widths and the dropout rate.
func (c DecoderConfig) Validate() error {
	if c.InDim <= 0 || c.HiddenDim <= 0 || c.OutDim <= 0 {
		return fmt.Errorf("%w: decoder dims must be positive, got in=%d hidden=%d out=%d",
			ErrInvalidConfig, c.InDim, c.HiddenDim, c.OutDim)
	}
	return validateRate(c.DropoutRate)
}

func validateRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return fmt.Errorf("%w: dropout_rate must be in [0, 1], got %g", ErrInvalidConfig, rate)
	}
	return nil
}
