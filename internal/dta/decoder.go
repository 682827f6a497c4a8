package dta

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/affinity/internal/nn"
	"github.com/born-ml/affinity/internal/tensor"
)

// MLPDecoder regresses one affinity from concatenated drug and target
// features with four fully connected layers:
//
//	relu(fc1) -> dropout -> relu(fc2) -> dropout -> relu(fc3) -> fc4
//
// The same dropout module is applied after fc1 and fc2. The fc4 weight is
// drawn from N(0, 1) instead of the uniform default.
type MLPDecoder[B tensor.Backend] struct {
	cfg     DecoderConfig
	fc1     *nn.Linear[B]
	fc2     *nn.Linear[B]
	fc3     *nn.Linear[B]
	fc4     *nn.Linear[B]
	dropout *nn.Dropout[B]
	layers  *nn.Sequential[B]
}

// NewMLPDecoder creates a decoder in training mode.
func NewMLPDecoder[B tensor.Backend](cfg DecoderConfig, rng *rand.Rand, backend B) (*MLPDecoder[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &MLPDecoder[B]{
		cfg:     cfg,
		fc1:     nn.NewLinear(cfg.InDim, cfg.HiddenDim, rng, backend),
		fc2:     nn.NewLinear(cfg.HiddenDim, cfg.HiddenDim, rng, backend),
		fc3:     nn.NewLinear(cfg.HiddenDim, cfg.OutDim, rng, backend),
		fc4:     nn.NewLinear(cfg.OutDim, 1, rng, backend),
		dropout: nn.NewDropout[B](cfg.DropoutRate, rng),
	}
	w := nn.Normal(0, 1, tensor.Shape{1, cfg.OutDim}, rng, backend)
	copy(d.fc4.Weight().Tensor().Data(), w.Data())

	nn.PrefixParameters("fc1", d.fc1.Parameters())
	nn.PrefixParameters("fc2", d.fc2.Parameters())
	nn.PrefixParameters("fc3", d.fc3.Parameters())
	nn.PrefixParameters("fc4", d.fc4.Parameters())

	d.layers = nn.NewSequential[B](
		d.fc1, nn.NewReLU[B](), d.dropout,
		d.fc2, nn.NewReLU[B](), d.dropout,
		d.fc3, nn.NewReLU[B](),
		d.fc4,
	)
	return d, nil
}

// Forward maps x [batch, InDim] to [batch, 1].
func (d *MLPDecoder[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != d.cfg.InDim {
		panic(fmt.Sprintf("mlp_decoder: expected input [batch, %d], got %v", d.cfg.InDim, shape))
	}

	return d.layers.Forward(x)
}

// Parameters returns the parameters of fc1 through fc4.
func (d *MLPDecoder[B]) Parameters() []*nn.Parameter[B] {
	return d.layers.Parameters()
}

// Train switches dropout between training and evaluation mode.
func (d *MLPDecoder[B]) Train(training bool) {
	d.layers.Train(training)
}

// Config returns the decoder configuration.
func (d *MLPDecoder[B]) Config() DecoderConfig {
	return d.cfg
}
