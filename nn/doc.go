// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network layers the affinity models are
// built from.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Embedding, Conv1D, GCNConv
//   - Pooling: GlobalMaxPool1D (adaptive max pool to length 1), GlobalMaxPool (per graph)
//   - Regularisation: Dropout
//   - Activations: ReLU
//   - Loss functions: MSELoss
//   - Utilities: Sequential, Module interface, Parameter
//   - Initialization: Xavier, LeCunUniform, Uniform, Normal, Zeros
//
// Every constructor that draws random weights takes a *rand.Rand; a nil rng
// falls back to the global math/rand source.
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/born-ml/affinity/backend/cpu"
//	    "github.com/born-ml/affinity/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    rng := rand.New(rand.NewSource(1))
//
//	    model := nn.NewSequential[*cpu.Backend](
//	        nn.NewLinear(256, 128, rng, backend),
//	        nn.NewReLU[*cpu.Backend](),
//	        nn.NewLinear(128, 1, rng, backend),
//	    )
//	    output := model.Forward(input)
//	}
//
// # Graph Convolution
//
// GCNConv consumes node features and a normalised adjacency:
//
//	adj := &nn.Adjacency[B]{Src: src, Dst: dst, Weight: w, NumNodes: n}
//	h := conv.Forward(x, adj)
//
// # Training and Evaluation
//
// Dropout starts in training mode. Switch modules to evaluation before
// inference:
//
//	model.Train(false)
//
// # Parameter Management
//
//	params := model.Parameters()
//	for _, param := range params {
//	    fmt.Println(param.Name(), param.Tensor().Shape())
//	}
package nn
