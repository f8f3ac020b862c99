package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abiiranathan/lexicon/pkg/config"
	"github.com/abiiranathan/lexicon/pkg/indexer"
	"github.com/abiiranathan/lexicon/pkg/storage"
)

const numIndexerWorkers = 4

// RunIndex initializes the logger, loads configuration, opens storage,
// and walks idxFlags.Root indexing every PDF found.
func RunIndex(ctx context.Context, flags *cmdFlags, idxFlags *indexFlags) error {
	if err := initLogger(flags); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	if idxFlags.Root == "" {
		return fmt.Errorf("--root is required")
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

	store, err := storage.Open(ctx, cfg.Storage.ConnString, numIndexerWorkers, cfg.Storage.Partitioned)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	defer store.Close()

	stats, err := indexer.Run(ctx, store, indexer.Options{
		Root:       idxFlags.Root,
		MinPages:   idxFlags.MinPages,
		DryRun:     idxFlags.DryRun,
		RemoveURLs: idxFlags.RemoveURLs,
		NumWorkers: numIndexerWorkers,
	})
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	slog.InfoContext(ctx, "indexing complete",
		"files_indexed", stats.FilesIndexed,
		"files_skipped", stats.FilesSkipped,
		"success", stats.Success,
	)

	if !stats.Success {
		return fmt.Errorf("indexing run completed with errors")
	}

	return nil
}
