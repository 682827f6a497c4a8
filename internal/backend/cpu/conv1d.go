package cpu

import (
	"fmt"

	"github.com/born-ml/affinity/internal/parallel"
	"github.com/born-ml/affinity/internal/tensor"
)

// conv1dGeometry holds the dimensions shared by the forward and backward
// kernels.
type conv1dGeometry struct {
	n, cIn, length, cOut, k, lOut, stride, padding int
}

func newConv1DGeometry(input, kernel *tensor.RawTensor, stride, padding int) conv1dGeometry {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 3 {
		panic(fmt.Sprintf("conv1d: input must be 3D [N,C,L], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 3 {
		panic(fmt.Sprintf("conv1d: kernel must be 3D [C_out,C_in,K], got %dD", len(kernelShape)))
	}
	if inputShape[1] != kernelShape[1] {
		panic(fmt.Sprintf("conv1d: input channels %d != kernel channels %d", inputShape[1], kernelShape[1]))
	}
	if stride <= 0 || padding < 0 {
		panic(fmt.Sprintf("conv1d: invalid stride %d / padding %d", stride, padding))
	}
	if input.DType() != kernel.DType() {
		panic(fmt.Sprintf("conv1d: dtype mismatch %s vs %s", input.DType(), kernel.DType()))
	}

	g := conv1dGeometry{
		n:       inputShape[0],
		cIn:     inputShape[1],
		length:  inputShape[2],
		cOut:    kernelShape[0],
		k:       kernelShape[2],
		stride:  stride,
		padding: padding,
	}
	g.lOut = (g.length+2*padding-g.k)/stride + 1
	if g.lOut <= 0 {
		panic(fmt.Sprintf("conv1d: kernel %d longer than padded input %d", g.k, g.length+2*padding))
	}
	return g
}

// Conv1D performs 1D cross-correlation (no kernel flip), matching the usual
// deep learning convention.
//
//	out[n, co, l] = Σ_ci Σ_k in[n, ci, l*stride + k - padding] * w[co, ci, k]
func (cpu *CPUBackend) Conv1D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	g := newConv1DGeometry(input, kernel, stride, padding)
	output := tensor.MustNewRaw(tensor.Shape{g.n, g.cOut, g.lOut}, input.DType(), cpu.device)

	switch input.DType() {
	case tensor.Float32:
		conv1dForward(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(), g, cpu.par)
	case tensor.Float64:
		conv1dForward(output.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(), g, cpu.par)
	default:
		panic(fmt.Sprintf("conv1d: unsupported dtype %s", input.DType()))
	}
	return output
}

func conv1dForward[T float](out, in, w []T, g conv1dGeometry, cfg parallel.Config) {
	parallel.ForBatch(g.n, g.cOut, func(n, co int) {
		dst := out[(n*g.cOut+co)*g.lOut : (n*g.cOut+co+1)*g.lOut]
		for ci := 0; ci < g.cIn; ci++ {
			src := in[(n*g.cIn+ci)*g.length : (n*g.cIn+ci+1)*g.length]
			wRow := w[(co*g.cIn+ci)*g.k : (co*g.cIn+ci+1)*g.k]
			for l := range dst {
				base := l*g.stride - g.padding
				var sum T
				for k, wv := range wRow {
					p := base + k
					if p < 0 || p >= g.length {
						continue
					}
					sum += src[p] * wv
				}
				dst[l] += sum
			}
		}
	}, cfg)
}

// Conv1DInputBackward computes ∂L/∂input given ∂L/∂output.
func (cpu *CPUBackend) Conv1DInputBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	g := newConv1DGeometry(input, kernel, stride, padding)
	checkConv1DGrad(grad, g)
	gradInput := tensor.MustNewRaw(input.Shape(), input.DType(), cpu.device)

	switch input.DType() {
	case tensor.Float32:
		conv1dInputGrad(gradInput.AsFloat32(), kernel.AsFloat32(), grad.AsFloat32(), g, cpu.par)
	case tensor.Float64:
		conv1dInputGrad(gradInput.AsFloat64(), kernel.AsFloat64(), grad.AsFloat64(), g, cpu.par)
	default:
		panic(fmt.Sprintf("conv1d backward: unsupported dtype %s", input.DType()))
	}
	return gradInput
}

func conv1dInputGrad[T float](gIn, w, gOut []T, g conv1dGeometry, cfg parallel.Config) {
	// Each (n, ci) row of gIn is written by exactly one worker.
	parallel.ForBatch(g.n, g.cIn, func(n, ci int) {
		dst := gIn[(n*g.cIn+ci)*g.length : (n*g.cIn+ci+1)*g.length]
		for co := 0; co < g.cOut; co++ {
			gRow := gOut[(n*g.cOut+co)*g.lOut : (n*g.cOut+co+1)*g.lOut]
			wRow := w[(co*g.cIn+ci)*g.k : (co*g.cIn+ci+1)*g.k]
			for l, gv := range gRow {
				base := l*g.stride - g.padding
				for k, wv := range wRow {
					p := base + k
					if p < 0 || p >= g.length {
						continue
					}
					dst[p] += gv * wv
				}
			}
		}
	}, cfg)
}

// Conv1DKernelBackward computes ∂L/∂kernel given ∂L/∂output.
func (cpu *CPUBackend) Conv1DKernelBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	g := newConv1DGeometry(input, kernel, stride, padding)
	checkConv1DGrad(grad, g)
	gradKernel := tensor.MustNewRaw(kernel.Shape(), kernel.DType(), cpu.device)

	switch input.DType() {
	case tensor.Float32:
		conv1dKernelGrad(gradKernel.AsFloat32(), input.AsFloat32(), grad.AsFloat32(), g, cpu.par)
	case tensor.Float64:
		conv1dKernelGrad(gradKernel.AsFloat64(), input.AsFloat64(), grad.AsFloat64(), g, cpu.par)
	default:
		panic(fmt.Sprintf("conv1d backward: unsupported dtype %s", input.DType()))
	}
	return gradKernel
}

func conv1dKernelGrad[T float](gW, in, gOut []T, g conv1dGeometry, cfg parallel.Config) {
	parallel.ForBatch(g.cOut, g.cIn, func(co, ci int) {
		dst := gW[(co*g.cIn+ci)*g.k : (co*g.cIn+ci+1)*g.k]
		for n := 0; n < g.n; n++ {
			src := in[(n*g.cIn+ci)*g.length : (n*g.cIn+ci+1)*g.length]
			gRow := gOut[(n*g.cOut+co)*g.lOut : (n*g.cOut+co+1)*g.lOut]
			for l, gv := range gRow {
				base := l*g.stride - g.padding
				for k := range dst {
					p := base + k
					if p < 0 || p >= g.length {
						continue
					}
					dst[k] += gv * src[p]
				}
			}
		}
	}, cfg)
}

func checkConv1DGrad(grad *tensor.RawTensor, g conv1dGeometry) {
	want := tensor.Shape{g.n, g.cOut, g.lOut}
	if !grad.Shape().Equal(want) {
		panic(fmt.Sprintf("conv1d backward: grad shape %v, expected %v", grad.Shape(), want))
	}
}
