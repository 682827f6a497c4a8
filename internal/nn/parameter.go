package nn

import (
	"github.com/born-ml/affinity/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
//	grad := weight.Grad() // nil until gradients are attached
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
	grad   *tensor.Tensor[float32, B]
}

// NewParameter creates a new trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name, e.g. "drug.conv1.weight".
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the gradient tensor, or nil before a backward pass.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}

// PrefixParameters prepends prefix and a dot to the name of every parameter
// and returns params. Containers call it once when adopting a sublayer so
// that names describe the full path ("fc1.weight").
func PrefixParameters[B tensor.Backend](prefix string, params []*Parameter[B]) []*Parameter[B] {
	for _, p := range params {
		p.name = prefix + "." + p.name
	}
	return params
}

// AttachGradients copies gradients computed by a backward pass onto the
// parameters that own them. Parameters without an entry keep a nil gradient.
func AttachGradients[B tensor.Backend](params []*Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, p := range params {
		g, ok := grads[p.Tensor().Raw()]
		if !ok {
			p.ZeroGrad()
			continue
		}
		p.SetGrad(tensor.New[float32, B](g, p.Tensor().Backend()))
	}
}
