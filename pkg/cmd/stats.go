package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abiiranathan/lexicon/pkg/config"
	"github.com/abiiranathan/lexicon/pkg/storage"
)

const numStatsWorkers = 1

// newStatsCmd builds the `stats` subcommand, an administrative surface
// supplementing the distilled spec's lifecycle note on purge with a way
// to see corpus-wide file/page counts.
func newStatsCmd(flags *cmdFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print corpus-wide file and page counts",
		Long:  "Connect to storage and print the total number of indexed files and pages.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd.Context(), flags)
		},
	}
}

func runStats(ctx context.Context, flags *cmdFlags) error {
	if err := initLogger(flags); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if flags.PGConn != "" {
		cfg.Storage.ConnString = flags.PGConn
	}

	if cfg.Storage.ConnString == "" {
		return fmt.Errorf("storage connection string is required (--pgconn or PGCONN)")
	}

	store, err := storage.Open(ctx, cfg.Storage.ConnString, numStatsWorkers, cfg.Storage.Partitioned)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	defer store.Close()

	s, err := storage.Stats(ctx, store.Handle(0))
	if err != nil {
		return fmt.Errorf("failed to fetch corpus stats: %w", err)
	}

	fmt.Printf("files: %d\npages: %d\n", s.FileCount, s.PageCount) //nolint:forbidigo // CLI output is intentional

	return nil
}
