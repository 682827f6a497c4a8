package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/affinity/internal/tensor"
)

// Adjacency is a normalised, self-looped edge list in tensor form, the input
// structure of a graph convolution. Every edge e carries a message from node
// Src[e] to node Dst[e] scaled by Weight[e].
type Adjacency[B tensor.Backend] struct {
	Src      *tensor.Tensor[int32, B]   // [E]
	Dst      *tensor.Tensor[int32, B]   // [E]
	Weight   *tensor.Tensor[float32, B] // [E]
	NumNodes int
}

// GCNConv is the graph convolution of Kipf & Welling:
//
//	X' = D^-1/2 (A + I) D^-1/2 X W^T + b
//
// The normalised adjacency is supplied by the caller as an Adjacency, so the
// layer itself only applies the linear map, aggregates messages and adds the
// bias. W is Glorot initialised and b starts at zero.
//
// Example:
//
//	conv := nn.NewGCNConv(78, 156, rng, backend)
//	h := conv.Forward(x, adj) // [N, 78] -> [N, 156]
type GCNConv[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	weight      *Parameter[B] // [out, in]
	bias        *Parameter[B] // [out]
}

// NewGCNConv creates a new graph convolution layer.
func NewGCNConv[B tensor.Backend](inChannels, outChannels int, rng *rand.Rand, backend B) *GCNConv[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("gcnconv: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	weight := Xavier(inChannels, outChannels, tensor.Shape{outChannels, inChannels}, rng, backend)
	bias := Zeros(tensor.Shape{outChannels}, backend)

	return &GCNConv[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
	}
}

// Forward applies the convolution to node features x [N, in_channels].
func (g *GCNConv[B]) Forward(x *tensor.Tensor[float32, B], adj *Adjacency[B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("gcnconv: expected 2D node features [N, F], got shape %v", shape))
	}
	if shape[1] != g.inChannels {
		panic(fmt.Sprintf("gcnconv: expected %d input channels, got %d", g.inChannels, shape[1]))
	}
	if shape[0] != adj.NumNodes {
		panic(fmt.Sprintf("gcnconv: %d feature rows for %d nodes", shape[0], adj.NumNodes))
	}

	h := x.MatMul(g.weight.Tensor().T())
	h = h.Propagate(adj.Src, adj.Dst, adj.Weight, adj.NumNodes)
	return h.Add(g.bias.Tensor().Reshape(1, g.outChannels))
}

// Parameters returns [weight, bias].
func (g *GCNConv[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{g.weight, g.bias}
}

// InChannels returns the input feature width.
func (g *GCNConv[B]) InChannels() int {
	return g.inChannels
}

// OutChannels returns the output feature width.
func (g *GCNConv[B]) OutChannels() int {
	return g.outChannels
}
