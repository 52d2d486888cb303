package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/podx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "podx",
		Usage:    "Set up and check in on your podcast curation agent",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.Before,
		After:    runner.After,
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		if isAuthError(err) {
			logger.Error("run 'podx auth login' to sign in again")
		}
		logger.Fatalf("application error: %v", err)
	}
}
