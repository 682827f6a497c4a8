package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/affinity/internal/tensor"
)

// Conv1D is a 1D convolutional layer.
//
// Input shape:  [batch, in_channels, length]
// Weight shape: [out_channels, in_channels, kernel]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, out_length]
//
// where out_length = (length + 2*padding - kernel)/stride + 1.
//
// Weight and bias are drawn from U(-1/sqrt(fan_in), 1/sqrt(fan_in)) with
// fan_in = in_channels * kernel.
type Conv1D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     int

	weight *Parameter[B]
	bias   *Parameter[B]
}

// NewConv1D creates a Conv1D layer with stride 1 and no padding.
func NewConv1D[B tensor.Backend](inChannels, outChannels, kernelSize int, rng *rand.Rand, backend B) *Conv1D[B] {
	return NewConv1DWithOptions(inChannels, outChannels, kernelSize, 1, 0, rng, backend)
}

// NewConv1DWithOptions creates a Conv1D layer with explicit stride and padding.
func NewConv1DWithOptions[B tensor.Backend](
	inChannels, outChannels, kernelSize int,
	stride, padding int,
	rng *rand.Rand,
	backend B,
) *Conv1D[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv1d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelSize <= 0 {
		panic(fmt.Sprintf("conv1d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv1d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv1d: invalid padding %d", padding))
	}

	fanIn := inChannels * kernelSize
	weight := LeCunUniform(fanIn, tensor.Shape{outChannels, inChannels, kernelSize}, rng, backend)
	bias := LeCunUniform(fanIn, tensor.Shape{outChannels}, rng, backend)

	return &Conv1D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
	}
}

// Forward performs the convolution and adds the per-channel bias.
func (c *Conv1D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 3 {
		panic(fmt.Sprintf("conv1d: expected 3D input [N,C,L], got shape %v", inputShape))
	}
	if inputShape[1] != c.inChannels {
		panic(fmt.Sprintf("conv1d: expected %d input channels, got %d", c.inChannels, inputShape[1]))
	}
	if inputShape[2]+2*c.padding < c.kernelSize {
		panic(fmt.Sprintf("conv1d: input length %d too short for kernel %d", inputShape[2], c.kernelSize))
	}

	output := input.Conv1D(c.weight.Tensor(), c.stride, c.padding)
	return output.Add(c.bias.Tensor().Reshape(1, c.outChannels, 1))
}

// OutputLength returns the output length for an input of the given length.
func (c *Conv1D[B]) OutputLength(length int) int {
	return (length+2*c.padding-c.kernelSize)/c.stride + 1
}

// Parameters returns [weight, bias].
func (c *Conv1D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{c.weight, c.bias}
}

// Weight returns the kernel parameter.
func (c *Conv1D[B]) Weight() *Parameter[B] {
	return c.weight
}

// Bias returns the bias parameter.
func (c *Conv1D[B]) Bias() *Parameter[B] {
	return c.bias
}
