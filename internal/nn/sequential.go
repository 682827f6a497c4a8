package nn

import (
	"fmt"

	"github.com/born-ml/affinity/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Example:
//
//	head := nn.NewSequential[B](
//	    nn.NewLinear(256, 128, rng, backend),
//	    nn.NewReLU[B](),
//	    nn.NewDropout[B](0.1, rng),
//	)
//	output := head.Forward(input)
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters returns the parameters of all modules in order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Train sets the mode of every module that distinguishes training from
// evaluation.
func (s *Sequential[B]) Train(training bool) {
	for _, module := range s.modules {
		if t, ok := module.(Trainable); ok {
			t.Train(training)
		}
	}
}

// Add appends a module to the sequence.
func (s *Sequential[B]) Add(module Module[B]) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at index i.
func (s *Sequential[B]) Module(i int) Module[B] {
	if i < 0 || i >= len(s.modules) {
		panic(fmt.Sprintf("sequential: index %d out of range [0, %d)", i, len(s.modules)))
	}
	return s.modules[i]
}
