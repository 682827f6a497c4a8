// Package main provides the affinity CLI.
//
// Usage:
//
//	affinity version
//	affinity summary -config model.yaml
//	affinity predict -config model.yaml -input batch.json
//
// No trained weights are loaded. predict initialises every parameter from the
// seed in model.yaml, so its scores come from an untrained network.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	logger := log.New(os.Stderr, "affinity: ", 0)
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		logger.Fatal(err)
	}
}

func run(args []string, stdout io.Writer, logger *log.Logger) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "affinity %s\n", version)
		return nil
	case "summary":
		return runSummary(args[1:], stdout, logger)
	case "predict":
		return runPredict(args[1:], stdout, logger)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stdout)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "affinity - drug-target binding affinity networks")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  summary    Print the layers and parameter count of a configured model")
	fmt.Fprintln(w, "  predict    Score pre-encoded drug/target pairs with seeded, untrained weights")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Weights are initialised from the config seed. Checkpoints are not loaded,")
	fmt.Fprintln(w, "so predicted scores are not real binding affinities.")
}
