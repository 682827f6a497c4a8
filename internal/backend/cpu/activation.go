package cpu

import "github.com/born-ml/affinity/internal/tensor"

// ReLU applies max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("relu", x, relu[float32], relu[float64])
}

func relu[T float](v T) T {
	if v > 0 {
		return v
	}
	return 0
}
