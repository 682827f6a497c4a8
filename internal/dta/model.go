package dta

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/affinity/internal/graph"
	"github.com/born-ml/affinity/internal/nn"
	"github.com/born-ml/affinity/internal/tensor"
)

// DeepDTAConfig configures a DeepDTA model. A zero Decoder.InDim is filled
// in from the encoders' output widths.
type DeepDTAConfig struct {
	Drug    SequenceEncoderConfig `yaml:"drug"`
	Target  SequenceEncoderConfig `yaml:"target"`
	Decoder DecoderConfig         `yaml:"decoder"`
}

// DefaultDeepDTAConfig returns the published DeepDTA architecture.
func DefaultDeepDTAConfig() DeepDTAConfig {
	drug, target := DefaultDrugSequenceConfig(), DefaultTargetSequenceConfig()
	return DeepDTAConfig{
		Drug:    drug,
		Target:  target,
		Decoder: DefaultDecoderConfig(drug.OutputDim() + target.OutputDim()),
	}
}

// GraphDTAConfig configures a GraphDTA model. A zero Decoder.InDim is filled
// in from the encoders' output widths.
type GraphDTAConfig struct {
	Drug    GraphEncoderConfig    `yaml:"drug"`
	Target  SequenceEncoderConfig `yaml:"target"`
	Decoder DecoderConfig         `yaml:"decoder"`
}

// DefaultGraphDTAConfig returns the GraphDTA (GCN) architecture.
func DefaultGraphDTAConfig() GraphDTAConfig {
	drug, target := DefaultGraphEncoderConfig(), DefaultTargetSequenceConfig()
	return GraphDTAConfig{
		Drug:    drug,
		Target:  target,
		Decoder: DefaultDecoderConfig(drug.OutChannels + target.OutputDim()),
	}
}

func resolveDecoder(cfg DecoderConfig, featureDim int) (DecoderConfig, error) {
	if cfg.InDim == 0 {
		cfg.InDim = featureDim
	}
	if cfg.InDim != featureDim {
		return cfg, fmt.Errorf("%w: decoder in_dim %d does not match encoder features %d",
			ErrInvalidConfig, cfg.InDim, featureDim)
	}
	return cfg, nil
}

// DeepDTA predicts affinity from a label-encoded drug sequence and a
// label-encoded target sequence.
type DeepDTA[B tensor.Backend] struct {
	drug    *DeepDTAEncoder[B]
	target  *DeepDTAEncoder[B]
	decoder *MLPDecoder[B]
	loss    *nn.MSELoss[B]
}

// NewDeepDTA builds a DeepDTA model in training mode.
func NewDeepDTA[B tensor.Backend](cfg DeepDTAConfig, rng *rand.Rand, backend B) (*DeepDTA[B], error) {
	drug, err := NewDeepDTAEncoder(cfg.Drug, rng, backend)
	if err != nil {
		return nil, fmt.Errorf("drug encoder: %w", err)
	}
	target, err := NewDeepDTAEncoder(cfg.Target, rng, backend)
	if err != nil {
		return nil, fmt.Errorf("target encoder: %w", err)
	}
	decCfg, err := resolveDecoder(cfg.Decoder, drug.OutputDim()+target.OutputDim())
	if err != nil {
		return nil, err
	}
	decoder, err := NewMLPDecoder(decCfg, rng, backend)
	if err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}

	nn.PrefixParameters("drug", drug.Parameters())
	nn.PrefixParameters("target", target.Parameters())
	nn.PrefixParameters("decoder", decoder.Parameters())
	return &DeepDTA[B]{drug: drug, target: target, decoder: decoder, loss: nn.NewMSELoss[B]()}, nil
}

// Forward predicts [batch, 1] affinities for drug [batch, Ld] and
// target [batch, Lt] label sequences.
func (m *DeepDTA[B]) Forward(drug, target *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	if drug.Shape()[0] != target.Shape()[0] {
		panic(fmt.Sprintf("deepdta: %d drugs for %d targets", drug.Shape()[0], target.Shape()[0]))
	}
	features := tensor.Cat([]*tensor.Tensor[float32, B]{m.drug.Forward(drug), m.target.Forward(target)}, 1)
	return m.decoder.Forward(features)
}

// Loss returns the mean squared error between predictions and affinities.
func (m *DeepDTA[B]) Loss(predictions, affinities *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return m.loss.Forward(predictions, affinities)
}

// Parameters returns drug encoder, target encoder and decoder parameters.
func (m *DeepDTA[B]) Parameters() []*nn.Parameter[B] {
	params := m.drug.Parameters()
	params = append(params, m.target.Parameters()...)
	return append(params, m.decoder.Parameters()...)
}

// Train switches dropout between training and evaluation mode.
func (m *DeepDTA[B]) Train(training bool) {
	m.decoder.Train(training)
}

// DrugEncoder returns the drug sequence encoder.
func (m *DeepDTA[B]) DrugEncoder() *DeepDTAEncoder[B] {
	return m.drug
}

// TargetEncoder returns the target sequence encoder.
func (m *DeepDTA[B]) TargetEncoder() *DeepDTAEncoder[B] {
	return m.target
}

// GraphDTA predicts affinity from a molecule graph and a label-encoded
// target sequence.
type GraphDTA[B tensor.Backend] struct {
	drug    *DrugGCNEncoder[B]
	target  *DeepDTAEncoder[B]
	decoder *MLPDecoder[B]
	loss    *nn.MSELoss[B]
}

// NewGraphDTA builds a GraphDTA model in training mode.
func NewGraphDTA[B tensor.Backend](cfg GraphDTAConfig, rng *rand.Rand, backend B) (*GraphDTA[B], error) {
	drug, err := NewDrugGCNEncoder(cfg.Drug, rng, backend)
	if err != nil {
		return nil, fmt.Errorf("drug encoder: %w", err)
	}
	target, err := NewDeepDTAEncoder(cfg.Target, rng, backend)
	if err != nil {
		return nil, fmt.Errorf("target encoder: %w", err)
	}
	decCfg, err := resolveDecoder(cfg.Decoder, drug.OutputDim()+target.OutputDim())
	if err != nil {
		return nil, err
	}
	decoder, err := NewMLPDecoder(decCfg, rng, backend)
	if err != nil {
		return nil, fmt.Errorf("decoder: %w", err)
	}

	nn.PrefixParameters("drug", drug.Parameters())
	nn.PrefixParameters("target", target.Parameters())
	nn.PrefixParameters("decoder", decoder.Parameters())
	return &GraphDTA[B]{drug: drug, target: target, decoder: decoder, loss: nn.NewMSELoss[B]()}, nil
}

// Forward predicts [NumGraphs, 1] affinities for a batch of drug graphs and
// target [NumGraphs, Lt] label sequences.
func (m *GraphDTA[B]) Forward(drugs *graph.Batch, target *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	if drugs.NumGraphs != target.Shape()[0] {
		panic(fmt.Sprintf("graphdta: %d drugs for %d targets", drugs.NumGraphs, target.Shape()[0]))
	}
	features := tensor.Cat([]*tensor.Tensor[float32, B]{m.drug.Forward(drugs), m.target.Forward(target)}, 1)
	return m.decoder.Forward(features)
}

// Loss returns the mean squared error between predictions and affinities.
func (m *GraphDTA[B]) Loss(predictions, affinities *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return m.loss.Forward(predictions, affinities)
}

// Parameters returns drug encoder, target encoder and decoder parameters.
func (m *GraphDTA[B]) Parameters() []*nn.Parameter[B] {
	params := m.drug.Parameters()
	params = append(params, m.target.Parameters()...)
	return append(params, m.decoder.Parameters()...)
}

// Train switches dropout between training and evaluation mode.
func (m *GraphDTA[B]) Train(training bool) {
	m.drug.Train(training)
	m.decoder.Train(training)
}

// DrugEncoder returns the molecule graph encoder.
func (m *GraphDTA[B]) DrugEncoder() *DrugGCNEncoder[B] {
	return m.drug
}

// TargetEncoder returns the target sequence encoder.
func (m *GraphDTA[B]) TargetEncoder() *DeepDTAEncoder[B] {
	return m.target
}
