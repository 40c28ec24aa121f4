package main

import (
	"context"
	"os"

	"github.com/calegria/ytfill/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "ytfill",
		Usage:    "Reconcile archived YouTube metadata with the YouTube Data API",
		Version:  "0.3.1",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		// Exit-coded errors (quota, prerequisites, lock, shutdown) are
		// handled by cli before reaching here.
		logger.Fatalf("application error: %v", err)
	}
}
