// Package main provides the entry point for the projectsmigrator CLI.
package main

import (
	"context"
	"os"

	"github.com/pretagov/projectsmigrator/cmd/projectsmigrator/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.ExitOnError(err)
	}

	// Cancelling the context on SIGINT/SIGTERM lets an in-flight run
	// stop between items instead of mid-mutation.
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
