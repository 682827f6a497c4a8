package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"text/tabwriter"

	"github.com/born-ml/affinity/internal/backend/cpu"
	"github.com/born-ml/affinity/internal/nn"
)

func runSummary(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to the YAML model file (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return errors.New("summary: -config is required")
	}

	mf, err := LoadModelFile(*configPath)
	if err != nil {
		return err
	}
	logger.Printf("building %s model (seed %d)", mf.Model, mf.Seed)
	model, err := buildModel(mf, cpu.New())
	if err != nil {
		return fmt.Errorf("build %s: %w", mf.Model, err)
	}
	return writeSummary(stdout, mf.Model, model.Parameters())
}

func writeSummary(w io.Writer, kind string, params []*nn.Parameter[backend]) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "model: %s\n\n", kind)
	fmt.Fprintln(tw, "PARAMETER\tSHAPE\tCOUNT")
	for _, p := range params {
		fmt.Fprintf(tw, "%s\t%v\t%d\n", p.Name(), p.Tensor().Shape(), p.Tensor().NumElements())
	}
	fmt.Fprintf(tw, "\ntotal\t\t%d\n", nn.CountParameters(params))
	return tw.Flush()
}
