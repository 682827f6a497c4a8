package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/affinity/internal/tensor"
)

// Dropout zeroes each element with probability rate during training and
// scales the survivors by 1/(1-rate), so the expected activation is
// unchanged. In evaluation mode it is the identity.
//
// New Dropout modules start in training mode.
type Dropout[B tensor.Backend] struct {
	rate     float64
	training bool
	rng      *rand.Rand
}

// NewDropout creates a Dropout module. A nil rng uses the global math/rand
// source for masks.
func NewDropout[B tensor.Backend](rate float64, rng *rand.Rand) *Dropout[B] {
	if rate < 0 || rate > 1 {
		panic(fmt.Sprintf("dropout: rate must be in [0, 1], got %g", rate))
	}
	return &Dropout[B]{rate: rate, training: true, rng: rng}
}

// Forward applies a random mask in training mode.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.rate == 0 {
		return input
	}

	uniform := rand.Float64 //nolint:gosec // dropout masks are not security-sensitive
	if d.rng != nil {
		uniform = d.rng.Float64
	}

	mask := tensor.Zeros[float32](input.Shape(), input.Backend())
	if d.rate < 1 {
		scale := float32(1 / (1 - d.rate))
		data := mask.Data()
		for i := range data {
			if uniform() >= d.rate {
				data[i] = scale
			}
		}
	}
	return input.Mul(mask)
}

// Train switches between training (true) and evaluation (false) mode.
func (d *Dropout[B]) Train(training bool) {
	d.training = training
}

// Training reports whether the module is in training mode.
func (d *Dropout[B]) Training() bool {
	return d.training
}

// Rate returns the drop probability.
func (d *Dropout[B]) Rate() float64 {
	return d.rate
}

// Parameters returns nil.
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}
