package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/affinity/internal/tensor"
)

// quantiler is satisfied by the gonum continuous distributions.
type quantiler interface {
	Quantile(p float64) float64
}

// sample fills a new float32 tensor by inverse transform sampling from dist.
// Uniform draws come from rng, or the global math/rand source when rng is nil,
// so that seeded models initialise identically.
func sample[B tensor.Backend](dist quantiler, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	uniform := rand.Float64 //nolint:gosec // weight init is not security-sensitive
	if rng != nil {
		uniform = rng.Float64
	}

	t := tensor.Zeros[float32](shape, backend)
	data := t.Data()
	for i := range data {
		u := uniform()
		for u == 0 {
			u = uniform()
		}
		data[i] = float32(dist.Quantile(u))
	}
	return t
}

// Xavier (Glorot) uniform initialization:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return Uniform(-bound, bound, shape, rng, backend)
}

// LeCunUniform draws from U(-1/sqrt(fan_in), 1/sqrt(fan_in)), the default
// initialisation of linear and convolution weights and biases.
func LeCunUniform[B tensor.Backend](fanIn int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	bound := 1 / math.Sqrt(float64(fanIn))
	return Uniform(-bound, bound, shape, rng, backend)
}

// Uniform draws from U(low, high).
func Uniform[B tensor.Backend](low, high float64, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return sample(distuv.Uniform{Min: low, Max: high}, shape, rng, backend)
}

// Normal draws from N(mean, std²).
func Normal[B tensor.Backend](mean, std float64, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return sample(distuv.Normal{Mu: mean, Sigma: std}, shape, rng, backend)
}

// Zeros creates a tensor filled with zeros, the usual bias initialisation.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}
