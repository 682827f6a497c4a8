// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dta provides drug-target binding affinity networks.
//
// # Overview
//
// Three building blocks:
//   - DeepDTAEncoder: embedding and three 1D convolutions over a label-encoded sequence
//   - DrugGCNEncoder: three graph convolutions and a per-graph max readout over a molecule
//   - MLPDecoder: four fully connected layers mapping concatenated features to one affinity
//
// and the two standard compositions built from them:
//   - DeepDTA: sequence drug encoder + sequence target encoder + decoder
//   - GraphDTA: graph drug encoder + sequence target encoder + decoder
//
// # Basic Usage
//
//	import (
//	    "math/rand"
//
//	    "github.com/born-ml/affinity/backend/cpu"
//	    "github.com/born-ml/affinity/dta"
//	    "github.com/born-ml/affinity/graph"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    cfg := dta.DefaultGraphDTAConfig()
//	    model, err := dta.NewGraphDTA(cfg, rand.New(rand.NewSource(1)), backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    model.Train(false)
//
//	    drugs, _ := graph.Collate(molecules)
//	    targets, _ := dta.SequenceBatch(cfg.Target, proteins, backend)
//	    affinity := model.Forward(drugs, targets) // [len(molecules), 1]
//	}
//
// Sequence labels run from 1 to NumEmbeddings; 0 is padding.
package dta
