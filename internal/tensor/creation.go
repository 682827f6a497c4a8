package tensor

import (
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err)
	}
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, T(1), b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a float tensor with values drawn from N(0, 1) using rng.
// A nil rng uses the global math/rand source.
func Randn[T DType, B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[T, B] {
	return fillRandom[T, B](shape, b, func() float64 {
		if rng == nil {
			return rand.NormFloat64() //nolint:gosec // weight init is not security-sensitive
		}
		return rng.NormFloat64()
	})
}

// Rand creates a float tensor with values uniform in [0, 1) using rng.
// A nil rng uses the global math/rand source.
func Rand[T DType, B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[T, B] {
	return fillRandom[T, B](shape, b, func() float64 {
		if rng == nil {
			return rand.Float64() //nolint:gosec // weight init is not security-sensitive
		}
		return rng.Float64()
	})
}

func fillRandom[T DType, B Backend](shape Shape, b B, next func() float64) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	switch data := any(t.Data()).(type) {
	case []float32:
		for i := range data {
			data[i] = float32(next())
		}
	case []float64:
		for i := range data {
			data[i] = next()
		}
	default:
		panic("random tensors only support float32 and float64")
	}
	return t
}
