package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/born-ml/affinity/internal/backend/cpu"
	"github.com/born-ml/affinity/internal/dta"
	"github.com/born-ml/affinity/internal/graph"
)

// ErrPairCount is returned when drugs and targets do not pair up.
var ErrPairCount = errors.New("drug and target counts differ")

// PredictInput holds pre-encoded drug/target pairs. DeepDTA models read
// Drugs, GraphDTA models read DrugGraphs.
type PredictInput struct {
	Drugs      [][]int32     `json:"drugs,omitempty"`
	DrugGraphs []graph.Graph `json:"drug_graphs,omitempty"`
	Targets    [][]int32     `json:"targets"`
}

// LoadPredictInput reads a JSON prediction batch from path.
func LoadPredictInput(path string) (*PredictInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var in PredictInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}
	return &in, nil
}

func runPredict(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to the YAML model file (required)")
	inputPath := fs.String("input", "", "Path to the JSON input batch (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" || *inputPath == "" {
		return errors.New("predict: -config and -input are required")
	}

	mf, err := LoadModelFile(*configPath)
	if err != nil {
		return err
	}
	in, err := LoadPredictInput(*inputPath)
	if err != nil {
		return err
	}

	model, err := buildModel(mf, cpu.New())
	if err != nil {
		return fmt.Errorf("build %s: %w", mf.Model, err)
	}
	logger.Printf("predicting %d pairs with untrained %s (seed %d)", len(in.Targets), mf.Model, mf.Seed)

	scores, err := model.Predict(in)
	if err != nil {
		return err
	}
	for i, s := range scores {
		fmt.Fprintf(stdout, "%d\t%.6f\n", i, s)
	}
	return nil
}

// Predict runs an evaluation-mode forward pass and returns one affinity per
// drug/target pair.
func (m *affinityModel) Predict(in *PredictInput) ([]float32, error) {
	m.Train(false)
	b := m.backend

	if m.graph != nil {
		cfg := m.file.GraphDTA
		if len(in.DrugGraphs) != len(in.Targets) {
			return nil, fmt.Errorf("%w: %d drug graphs, %d targets", ErrPairCount, len(in.DrugGraphs), len(in.Targets))
		}
		drugs, err := graph.Collate(in.DrugGraphs)
		if err != nil {
			return nil, fmt.Errorf("drug graphs: %w", err)
		}
		if drugs.NumFeatures != cfg.Drug.InChannels {
			return nil, fmt.Errorf("drug graphs: %w: %d node features, model expects %d",
				graph.ErrFeatureWidth, drugs.NumFeatures, cfg.Drug.InChannels)
		}
		targets, err := dta.SequenceBatch(cfg.Target, in.Targets, b)
		if err != nil {
			return nil, fmt.Errorf("targets: %w", err)
		}
		return m.graph.Forward(drugs, targets).Data(), nil
	}

	cfg := m.file.DeepDTA
	if len(in.Drugs) != len(in.Targets) {
		return nil, fmt.Errorf("%w: %d drugs, %d targets", ErrPairCount, len(in.Drugs), len(in.Targets))
	}
	drugs, err := dta.SequenceBatch(cfg.Drug, in.Drugs, b)
	if err != nil {
		return nil, fmt.Errorf("drugs: %w", err)
	}
	targets, err := dta.SequenceBatch(cfg.Target, in.Targets, b)
	if err != nil {
		return nil, fmt.Errorf("targets: %w", err)
	}
	return m.deep.Forward(drugs, targets).Data(), nil
}
