// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor API used by the affinity
// networks.
//
// # Overview
//
// This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting for element-wise operations
//   - A pluggable Backend interface (see backend/cpu and autodiff)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/affinity/backend/cpu"
//	    "github.com/born-ml/affinity/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	    z := x.Add(y)
//	    result := x.MatMul(y.T())
//	}
//
// # Supported Data Types
//
//   - float32, float64 (features and weights)
//   - int32 (token labels, edge endpoints, graph membership)
//   - int64
//
// # Graph Operations
//
// Besides the dense operations, tensors expose the two sparse primitives a
// graph convolution needs:
//
//	h := x.Propagate(src, dst, weight, numNodes) // weighted scatter-add along edges
//	g := h.SegmentMax(batch, numGraphs)          // per-graph max readout
package tensor
