package main

import (
	"fmt"
	"os"

	"github.com/skillsenselab/meetscribe/internal/cli"
	"github.com/skillsenselab/meetscribe/internal/config"
	"github.com/skillsenselab/meetscribe/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	// Validation is deferred to the commands: run fails fast on missing
	// credentials, doctor reports on whatever is configured.
	cfg, err := config.Load(config.WithoutValidation())
	if err != nil {
		return err
	}

	deps := &cli.Dependencies{
		Config: cfg,
		Log:    logging.New(cfg.Logging, os.Stderr),
	}

	return cli.NewRootCmd(deps).Execute()
}
