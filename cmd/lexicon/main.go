// Command lexicon runs the full-text PDF search service: its "index"
// subcommand walks a directory tree into Postgres full-text search, and
// its "serve" subcommand exposes the HTTP search API over that store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abiiranathan/lexicon/pkg/cmd"
)

var (
	version = "dev"
	appName = "lexicon"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.InitCommand(cmd.BuildInfo{
		Version: version,
		AppName: appName,
	})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("lexicon exited with error", "error", err)
		fmt.Fprintln(os.Stderr, err)

		return 1
	}

	return 0
}
