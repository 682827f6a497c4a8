package dta

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/affinity/internal/graph"
	"github.com/born-ml/affinity/internal/nn"
	"github.com/born-ml/affinity/internal/tensor"
)

// DrugGCNEncoder encodes batches of molecule graphs with three graph
// convolutions, a per-graph max pool and a fully connected projection.
//
//	x [N, C]
//	  -> relu(gcn1)        [N, C]
//	  -> relu(gcn2)        [N, 2C]
//	  -> relu(gcn3)        [N, 4C]
//	  -> global max pool   [G, 4C]
//	  -> fc, dropout       [G, OutChannels]
//
// ReLU is applied after the convolutions only; the projection output is
// passed through dropout unactivated.
type DrugGCNEncoder[B tensor.Backend] struct {
	cfg     GraphEncoderConfig
	conv1   *nn.GCNConv[B]
	conv2   *nn.GCNConv[B]
	conv3   *nn.GCNConv[B]
	pool    *nn.GlobalMaxPool[B]
	fc      *nn.Linear[B]
	dropout *nn.Dropout[B]
	backend B
}

// NewDrugGCNEncoder creates a graph encoder in training mode.
func NewDrugGCNEncoder[B tensor.Backend](cfg GraphEncoderConfig, rng *rand.Rand, backend B) (*DrugGCNEncoder[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.InChannels
	e := &DrugGCNEncoder[B]{
		cfg:     cfg,
		conv1:   nn.NewGCNConv(c, c, rng, backend),
		conv2:   nn.NewGCNConv(c, 2*c, rng, backend),
		conv3:   nn.NewGCNConv(2*c, 4*c, rng, backend),
		pool:    nn.NewGlobalMaxPool[B](),
		fc:      nn.NewLinear(4*c, cfg.OutChannels, rng, backend),
		dropout: nn.NewDropout[B](cfg.DropoutRate, rng),
		backend: backend,
	}
	nn.PrefixParameters("conv1", e.conv1.Parameters())
	nn.PrefixParameters("conv2", e.conv2.Parameters())
	nn.PrefixParameters("conv3", e.conv3.Parameters())
	nn.PrefixParameters("fc", e.fc.Parameters())
	return e, nil
}

// Forward encodes every graph of the batch into [NumGraphs, OutChannels].
//
// Panics if the batch's node feature width differs from InChannels.
func (e *DrugGCNEncoder[B]) Forward(batch *graph.Batch) *tensor.Tensor[float32, B] {
	if batch.NumFeatures != e.cfg.InChannels {
		panic(fmt.Sprintf("drug_gcn_encoder: expected %d node features, got %d", e.cfg.InChannels, batch.NumFeatures))
	}

	x := mustFromSlice(batch.X, tensor.Shape{batch.NumNodes, batch.NumFeatures}, e.backend)
	adj := BuildAdjacency(batch, e.backend)
	index := mustFromSlice(batch.Index, tensor.Shape{batch.NumNodes}, e.backend)

	h := e.conv1.Forward(x, adj).ReLU()
	h = e.conv2.Forward(h, adj).ReLU()
	h = e.conv3.Forward(h, adj).ReLU()
	h = e.pool.Forward(h, index, batch.NumGraphs)
	return e.dropout.Forward(e.fc.Forward(h))
}

// Parameters returns the convolution and projection parameters.
func (e *DrugGCNEncoder[B]) Parameters() []*nn.Parameter[B] {
	params := e.conv1.Parameters()
	params = append(params, e.conv2.Parameters()...)
	params = append(params, e.conv3.Parameters()...)
	return append(params, e.fc.Parameters()...)
}

// Train switches dropout between training and evaluation mode.
func (e *DrugGCNEncoder[B]) Train(training bool) {
	e.dropout.Train(training)
}

// Config returns the encoder configuration.
func (e *DrugGCNEncoder[B]) Config() GraphEncoderConfig {
	return e.cfg
}

// OutputDim returns the feature width, OutChannels.
func (e *DrugGCNEncoder[B]) OutputDim() int {
	return e.cfg.OutChannels
}

// BuildAdjacency converts a batch's self-looped, symmetrically normalised edge
// list into tensors for nn.GCNConv.
func BuildAdjacency[B tensor.Backend](batch *graph.Batch, backend B) *nn.Adjacency[B] {
	src, dst, weight := batch.GCNNorm()
	return &nn.Adjacency[B]{
		Src:      mustFromSlice(src, tensor.Shape{len(src)}, backend),
		Dst:      mustFromSlice(dst, tensor.Shape{len(dst)}, backend),
		Weight:   mustFromSlice(weight, tensor.Shape{len(weight)}, backend),
		NumNodes: batch.NumNodes,
	}
}

func mustFromSlice[T tensor.DType, B tensor.Backend](data []T, shape tensor.Shape, backend B) *tensor.Tensor[T, B] {
	t, err := tensor.FromSlice(data, shape, backend)
	if err != nil {
		panic(fmt.Sprintf("dta: %v", err))
	}
	return t
}
