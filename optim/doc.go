// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for the affinity models.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Each Step applies exactly one update from a gradient map; iterating over a
// dataset is left to the caller.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/affinity/autodiff"
//	    "github.com/born-ml/affinity/backend/cpu"
//	    "github.com/born-ml/affinity/dta"
//	    "github.com/born-ml/affinity/optim"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    model, _ := dta.NewDeepDTA(dta.DefaultDeepDTAConfig(), rng, backend)
//
//	    optimizer := optim.NewAdam(
//	        model.Parameters(),
//	        optim.AdamConfig{
//	            LR:    0.001,
//	            Betas: [2]float32{0.9, 0.999},
//	        },
//	    )
//
//	    backend.Tape().StartRecording()
//	    loss := model.Loss(model.Forward(drugs, targets), affinities)
//	    grads := autodiff.Backward(loss, backend)
//	    optimizer.Step(grads)
//	    backend.Tape().Clear()
//	}
package optim
