package main

import (
	"github.com/born-ml/affinity/internal/backend/cpu"
	"github.com/born-ml/affinity/internal/dta"
	"github.com/born-ml/affinity/internal/nn"
)

// Inference runs without a gradient tape, straight on the CPU backend.
type backend = *cpu.CPUBackend

// affinityModel holds whichever composition the model file selects.
type affinityModel struct {
	file    ModelFile
	backend backend
	deep    *dta.DeepDTA[backend]
	graph   *dta.GraphDTA[backend]
}

func buildModel(mf ModelFile, b backend) (*affinityModel, error) {
	m := &affinityModel{file: mf, backend: b}
	var err error
	switch mf.Model {
	case KindGraphDTA:
		m.graph, err = dta.NewGraphDTA(mf.GraphDTA, mf.RNG(), b)
	default:
		m.deep, err = dta.NewDeepDTA(mf.DeepDTA, mf.RNG(), b)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *affinityModel) Parameters() []*nn.Parameter[backend] {
	if m.graph != nil {
		return m.graph.Parameters()
	}
	return m.deep.Parameters()
}

func (m *affinityModel) Train(training bool) {
	if m.graph != nil {
		m.graph.Train(training)
		return
	}
	m.deep.Train(training)
}
