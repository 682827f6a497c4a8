package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/affinity/internal/backend/cpu"
	"github.com/born-ml/affinity/internal/dta"
	"github.com/born-ml/affinity/internal/graph"
)

const deepInputJSON = `{
  "drugs": [[1, 2, 3], [4, 5, 1, 2, 3, 4]],
  "targets": [[1, 1, 2], [5, 4, 3, 2, 1]]
}`

const graphInputJSON = `{
  "drug_graphs": [
    {"features": [[1, 0, 0], [0, 1, 0], [0, 0, 1]], "edges": [[0, 1], [1, 0], [1, 2], [2, 1]]},
    {"features": [[1, 1, 0], [0, 0, 1]], "edges": [[0, 1], [1, 0]]}
  ],
  "targets": [[1, 2], [3]]
}`

func smallModel(t *testing.T, yaml string) *affinityModel {
	t.Helper()
	mf, err := ParseModelFile([]byte(yaml))
	require.NoError(t, err)
	m, err := buildModel(mf, cpu.New())
	require.NoError(t, err)
	return m
}

func TestLoadPredictInput(t *testing.T) {
	in, err := LoadPredictInput(writeFile(t, "batch.json", graphInputJSON))
	require.NoError(t, err)
	require.Len(t, in.DrugGraphs, 2)
	assert.Equal(t, 3, in.DrugGraphs[0].NumNodes())
	assert.Equal(t, [][2]int32{{0, 1}, {1, 0}}, in.DrugGraphs[1].Edges)
	assert.Equal(t, [][]int32{{1, 2}, {3}}, in.Targets)

	_, err = LoadPredictInput(writeFile(t, "bad.json", "{"))
	assert.ErrorContains(t, err, "parse input")
}

func TestPredict_DeepDTA(t *testing.T) {
	m := smallModel(t, smallDeepDTAYAML)
	in, err := LoadPredictInput(writeFile(t, "batch.json", deepInputJSON))
	require.NoError(t, err)

	scores, err := m.Predict(in)
	require.NoError(t, err)
	assert.Len(t, scores, 2)

	again, err := m.Predict(in)
	require.NoError(t, err)
	assert.Equal(t, scores, again, "prediction runs in evaluation mode")
}

func TestPredict_GraphDTA(t *testing.T) {
	m := smallModel(t, smallGraphDTAYAML)
	in, err := LoadPredictInput(writeFile(t, "batch.json", graphInputJSON))
	require.NoError(t, err)

	scores, err := m.Predict(in)
	require.NoError(t, err)
	assert.Len(t, scores, 2)
}

func TestPredict_Errors(t *testing.T) {
	deep := smallModel(t, smallDeepDTAYAML)

	_, err := deep.Predict(&PredictInput{Drugs: [][]int32{{1}}, Targets: [][]int32{{1}, {2}}})
	assert.ErrorIs(t, err, ErrPairCount)

	_, err = deep.Predict(&PredictInput{Drugs: [][]int32{{9}}, Targets: [][]int32{{1}}})
	assert.ErrorIs(t, err, dta.ErrLabelOutOfRange)

	_, err = deep.Predict(&PredictInput{Drugs: [][]int32{{1}}, Targets: [][]int32{{1, 1, 1, 1, 1, 1, 1, 1, 1}}})
	assert.ErrorIs(t, err, dta.ErrSequenceTooLong)

	gm := smallModel(t, smallGraphDTAYAML)
	wide := graph.Graph{Features: [][]float32{{1, 2, 3, 4}}}
	_, err = gm.Predict(&PredictInput{DrugGraphs: []graph.Graph{wide}, Targets: [][]int32{{1}}})
	assert.ErrorIs(t, err, graph.ErrFeatureWidth)

	bad := graph.Graph{Features: [][]float32{{1, 2, 3}}, Edges: [][2]int32{{0, 4}}}
	_, err = gm.Predict(&PredictInput{DrugGraphs: []graph.Graph{bad}, Targets: [][]int32{{1}}})
	assert.ErrorIs(t, err, graph.ErrEdgeOutOfRange)

	_, err = gm.Predict(&PredictInput{Targets: [][]int32{}})
	assert.ErrorIs(t, err, graph.ErrEmptyBatch)
}

func TestRun_Predict(t *testing.T) {
	cfg := writeFile(t, "model.yaml", smallDeepDTAYAML)
	input := writeFile(t, "batch.json", deepInputJSON)

	out, err := runCLI(t, "predict", "-config", cfg, "-input", input)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "0\t"))
	assert.True(t, strings.HasPrefix(lines[1], "1\t"))

	_, err = runCLI(t, "predict", "-config", cfg)
	assert.EqualError(t, err, "predict: -config and -input are required")
}
