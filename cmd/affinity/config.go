package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/affinity/internal/dta"
)

// Supported model kinds.
const (
	KindDeepDTA  = "deepdta"
	KindGraphDTA = "graphdta"
)

// ErrUnknownModel is returned for a model kind other than deepdta or graphdta.
var ErrUnknownModel = errors.New("unknown model kind")

// ModelFile is the YAML model description read by summary and predict.
//
//	model: graphdta
//	seed: 7
//	graphdta:
//	  drug:
//	    in_channels: 78
//	  decoder:
//	    hidden_dim: 1024
//
// Sections that are left out keep the published defaults. The decoder's
// in_dim is derived from the encoders unless set explicitly.
//
// A ModelFile describes architecture only. Parameters are drawn from Seed
// and no trained weights are read, so models built from it are untrained.
type ModelFile struct {
	Model    string             `yaml:"model"`
	Seed     int64              `yaml:"seed"`
	DeepDTA  dta.DeepDTAConfig  `yaml:"deepdta"`
	GraphDTA dta.GraphDTAConfig `yaml:"graphdta"`
}

// DefaultModelFile returns a DeepDTA description with default architecture.
func DefaultModelFile() ModelFile {
	deep := dta.DefaultDeepDTAConfig()
	deep.Decoder.InDim = 0
	graph := dta.DefaultGraphDTAConfig()
	graph.Decoder.InDim = 0
	return ModelFile{
		Model:    KindDeepDTA,
		Seed:     1,
		DeepDTA:  deep,
		GraphDTA: graph,
	}
}

// ParseModelFile decodes a YAML model description over the defaults.
// Unknown keys are rejected.
func ParseModelFile(data []byte) (ModelFile, error) {
	mf := DefaultModelFile()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&mf); err != nil && !errors.Is(err, io.EOF) {
		return ModelFile{}, fmt.Errorf("parse model file: %w", err)
	}
	if mf.Model != KindDeepDTA && mf.Model != KindGraphDTA {
		return ModelFile{}, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownModel, mf.Model, KindDeepDTA, KindGraphDTA)
	}
	return mf, nil
}

// LoadModelFile reads and parses the model description at path.
func LoadModelFile(path string) (ModelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelFile{}, fmt.Errorf("read model file: %w", err)
	}
	return ParseModelFile(data)
}

// RNG returns the seeded source used for weight initialisation.
func (mf ModelFile) RNG() *rand.Rand {
	return rand.New(rand.NewSource(mf.Seed)) //nolint:gosec // weight init is not security-sensitive
}
