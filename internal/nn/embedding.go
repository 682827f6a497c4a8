package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/affinity/internal/tensor"
)

// Embedding is a lookup table that maps integer labels to dense vectors.
//
//   - Weight: [NumEmbed, EmbedDim], initialised from N(0, 1)
//   - Forward: indices [...] -> embeddings [..., EmbedDim]
//   - Backward: gradients scatter-add into the rows that were read
//
// Example:
//
//	embed := nn.NewEmbedding(65, 128, rng, backend)
//	ids, _ := tensor.FromSlice([]int32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
//	vectors := embed.Forward(ids) // [2, 2, 128]
type Embedding[B tensor.Backend] struct {
	Weight   *Parameter[B]
	NumEmbed int
	EmbedDim int
}

// NewEmbedding creates a new Embedding layer with N(0, 1) weights.
func NewEmbedding[B tensor.Backend](numEmbeddings, embeddingDim int, rng *rand.Rand, backend B) *Embedding[B] {
	if numEmbeddings <= 0 || embeddingDim <= 0 {
		panic(fmt.Sprintf("embedding: invalid size %dx%d", numEmbeddings, embeddingDim))
	}
	weight := Normal(0, 1, tensor.Shape{numEmbeddings, embeddingDim}, rng, backend)

	return &Embedding[B]{
		Weight:   NewParameter("weight", weight),
		NumEmbed: numEmbeddings,
		EmbedDim: embeddingDim,
	}
}

// Forward looks up the embedding vector of every index.
//
// Panics if any index is outside [0, NumEmbed).
func (e *Embedding[B]) Forward(indices *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	return e.Weight.Tensor().Embedding(indices)
}

// Parameters returns [weight].
func (e *Embedding[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{e.Weight}
}
