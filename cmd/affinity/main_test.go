package main

import (
	"bytes"
	"io"
	"log"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/affinity/internal/backend/cpu"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, &out, log.New(io.Discard, "", 0))
	return out.String(), err
}

func TestRun_Version(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "affinity "+version+"\n", out)
}

func TestRun_Usage(t *testing.T) {
	out, err := runCLI(t)
	require.NoError(t, err)
	assert.Contains(t, out, "predict")
	assert.Contains(t, out, "untrained weights")
	assert.Contains(t, out, "not real binding affinities")

	_, err = runCLI(t, "train")
	assert.EqualError(t, err, `unknown command "train"`)
}

func TestRun_Summary(t *testing.T) {
	path := writeFile(t, "model.yaml", smallDeepDTAYAML)
	out, err := runCLI(t, "summary", "-config", path)
	require.NoError(t, err)

	assert.Contains(t, out, "model: deepdta")
	assert.Contains(t, out, "drug.embedding.weight")
	assert.Contains(t, out, "decoder.fc4.bias")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	fields := strings.Fields(lines[len(lines)-1])
	require.Len(t, fields, 2)
	assert.Equal(t, "total", fields[0])
	total, err := strconv.Atoi(fields[1])
	require.NoError(t, err)

	mf, err := ParseModelFile([]byte(smallDeepDTAYAML))
	require.NoError(t, err)
	model, err := buildModel(mf, cpu.New())
	require.NoError(t, err)
	want := 0
	for _, p := range model.Parameters() {
		want += p.Tensor().NumElements()
	}
	assert.Equal(t, want, total)

	_, err = runCLI(t, "summary")
	assert.EqualError(t, err, "summary: -config is required")
}
