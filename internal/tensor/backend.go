package tensor

// Backend defines the interface that compute backends implement.
//
// Backends never modify their inputs and always return a new RawTensor,
// which lets the autodiff decorator key gradients by tensor identity.
// Shape violations are programming errors and panic.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// Scalar operations.
	MulScalar(x *RawTensor, scalar float64) *RawTensor
	AddScalar(x *RawTensor, scalar float64) *RawTensor

	// MatMul multiplies 2D matrices: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Conv1D performs a 1D cross-correlation.
	// input [N, C_in, L], kernel [C_out, C_in, K] -> [N, C_out, L_out]
	// where L_out = (L + 2*padding - K)/stride + 1.
	Conv1D(input, kernel *RawTensor, stride, padding int) *RawTensor
	Conv1DInputBackward(input, kernel, grad *RawTensor, stride, padding int) *RawTensor
	Conv1DKernelBackward(input, kernel, grad *RawTensor, stride, padding int) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Squeeze(x *RawTensor, dim int) *RawTensor
	Unsqueeze(x *RawTensor, dim int) *RawTensor
	Cat(tensors []*RawTensor, dim int) *RawTensor

	// Reductions.
	Sum(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MaxDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Activations.
	ReLU(x *RawTensor) *RawTensor

	// Embedding gathers rows of weight [V, D] for int32 indices of any shape,
	// producing [..., D].
	Embedding(weight, indices *RawTensor) *RawTensor

	// Propagate is the message passing primitive of graph convolutions:
	// out[dst[e]] += weight[e] * x[src[e]] for every edge e.
	// x [N, F], src/dst int32 [E], weight float32 [E] -> [numNodes, F].
	Propagate(x, src, dst, weight *RawTensor, numNodes int) *RawTensor

	// SegmentMax reduces rows of x [N, F] into numSegments groups given an
	// int32 segment id per row, producing [numSegments, F].
	SegmentMax(x, segments *RawTensor, numSegments int) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
