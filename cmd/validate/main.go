package main

import (
	"fmt"
	"os"

	"github.com/perhitsiksha/events-ingest/internal/validate"
	"github.com/perhitsiksha/events-ingest/pkg/config"
	"github.com/perhitsiksha/events-ingest/pkg/logger"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Opts{Env: cfg.App.Env})

	v := validate.New(cfg, log)
	report, err := v.ValidateFile(cfg.Output.File)
	if err != nil {
		log.Error("Validation could not run", "error", err)
		os.Exit(1)
	}

	for _, failed := range report.Failed {
		fmt.Printf("✗ event %d (%s)\n", failed.Index, failed.ID)
		for _, issue := range failed.Issues {
			fmt.Printf("    - %s\n", issue)
		}
	}

	if !report.OK() {
		fmt.Printf("✗ %d of %d events failed validation\n", len(report.Failed), report.Total)
		os.Exit(1)
	}

	fmt.Printf("✓ all %d events passed validation\n", report.Total)
}
