// Package indexer implements the concurrent indexing pipeline: a single
// walker thread drives a depth-first directory walk and submits one
// task per discovered PDF to a fixed-size worker pool, each worker
// owning its document end-to-end in its own transaction.
package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"

	"github.com/abiiranathan/lexicon/internal/apperrors"
	"github.com/abiiranathan/lexicon/pkg/pdfdoc"
	"github.com/abiiranathan/lexicon/pkg/storage"
)

// skipDirNames is the closed set of build/VCS/dependency directories
// never descended into.
var skipDirNames = map[string]bool{
	"node_modules": true, ".git": true, ".svn": true, ".hg": true,
	"__pycache__": true, ".pytest_cache": true, ".mypy_cache": true, ".tox": true,
	"venv": true, ".venv": true, "env": true, ".env": true, "vendor": true,
	"build": true, "dist": true, "target": true, ".gradle": true, ".idea": true,
	".vscode": true, ".cache": true, "coverage": true, ".next": true, ".nuxt": true,
	".turbo": true, ".DS_Store": true,
}

const defaultNumWorkers = 4

// Options configures one indexing run.
type Options struct {
	Root       string
	MinPages   int
	DryRun     bool
	RemoveURLs bool
	NumWorkers int
}

// Stats summarizes the outcome of a completed run.
type Stats struct {
	FilesIndexed int
	FilesSkipped int
	Success      bool
}

// Run walks opts.Root, indexing every PDF found into store. It returns
// once every submitted document task has completed.
func Run(ctx context.Context, store *storage.Storage, opts Options) (Stats, error) {
	if opts.NumWorkers < 1 {
		opts.NumWorkers = defaultNumWorkers
	}

	walkerConn, err := storage.NewHandle(ctx, store)
	if err != nil {
		return Stats{}, apperrors.Wrap(apperrors.IndexingFatal, "acquire walker handle", err)
	}
	defer walkerConn.Release()

	var walkerQuerier storage.Querier

	var tx pgx.Tx

	if !opts.DryRun {
		tx, err = walkerConn.Begin(ctx)
		if err != nil {
			return Stats{}, apperrors.Wrap(apperrors.IndexingFatal, "begin walker transaction", err)
		}

		defer func() { _ = tx.Rollback(ctx) }()

		walkerQuerier = tx
	}

	var success atomic.Bool
	success.Store(true)

	taskCh := make(chan *task)

	var wg sync.WaitGroup

	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			runWorker(ctx, store, opts, taskCh)
		}()
	}

	stats := Stats{}

	walkErr := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != opts.Root && shouldSkip(d) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}

		indexed, err := handleFile(ctx, walkerQuerier, path, opts, &success, taskCh)
		if err != nil {
			return err
		}

		if indexed {
			stats.FilesIndexed++
		} else {
			stats.FilesSkipped++
		}

		return nil
	})

	close(taskCh)
	wg.Wait()

	if walkErr != nil {
		return stats, apperrors.Wrap(apperrors.IndexingFatal, "walk "+opts.Root, walkErr)
	}

	stats.Success = success.Load()

	if opts.DryRun {
		return stats, nil
	}

	if stats.Success {
		if err := tx.Commit(ctx); err != nil {
			return stats, apperrors.Wrap(apperrors.IndexingFatal, "commit walker transaction", err)
		}
	} else {
		_ = tx.Rollback(ctx)
	}

	return stats, nil
}

func shouldSkip(d fs.DirEntry) bool {
	name := d.Name()

	if d.IsDir() {
		return skipDirNames[name] || strings.HasPrefix(name, ".")
	}

	return strings.HasPrefix(name, ".")
}

// handleFile performs the walker-side work for one candidate PDF:
// opening it to learn its page count, applying the minimum-pages
// filter, and (outside dry-run) upserting its file record and
// submitting a task to the pool. It returns whether the file was
// submitted for indexing (in dry run, whether it would have been).
func handleFile(ctx context.Context, q storage.Querier, path string, opts Options, success *atomic.Bool, taskCh chan<- *task) (bool, error) {
	doc, err := pdfdoc.Open(path)
	if err != nil {
		slog.WarnContext(ctx, "indexer: failed to open pdf, skipping", "path", path, "error", err)
		return false, nil
	}

	numPages := doc.PageCount()
	_ = doc.Close()

	if numPages < opts.MinPages {
		return false, nil
	}

	name := filepath.Base(path)

	if opts.DryRun {
		slog.InfoContext(ctx, "indexer: would index (dry run)", "path", path, "pages", numPages)
		return true, nil
	}

	fileID, err := storage.UpsertFile(ctx, q, name, path, numPages)
	if err != nil {
		return false, fmt.Errorf("upsert file record for %s: %w", path, err)
	}

	taskCh <- &task{
		path:              path,
		name:              name,
		fileID:            fileID,
		expectedPageCount: numPages,
		globalSuccess:     success,
	}

	return true, nil
}
