package indexer

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/abiiranathan/lexicon/pkg/pdfdoc"
	"github.com/abiiranathan/lexicon/pkg/storage"
	"github.com/abiiranathan/lexicon/pkg/textclean"
)

// runWorker pulls tasks from taskCh until it is closed, processing one
// document at a time to completion before requesting the next.
func runWorker(ctx context.Context, store *storage.Storage, opts Options, taskCh <-chan *task) {
	for t := range taskCh {
		processDocument(ctx, store, opts, t)
	}
}

// processDocument owns t end-to-end: it opens its own storage handle
// and PDF handle, runs one transaction for every page, and flips
// t.globalSuccess if anything about the document failed.
func processDocument(ctx context.Context, store *storage.Storage, opts Options, t *task) {
	conn, err := storage.NewHandle(ctx, store)
	if err != nil {
		slog.ErrorContext(ctx, "indexer: failed to acquire worker handle", "path", t.path, "error", err)
		t.globalSuccess.Store(false)

		return
	}
	defer conn.Release()

	doc, err := pdfdoc.Open(t.path)
	if err != nil {
		slog.ErrorContext(ctx, "indexer: failed to reopen pdf", "path", t.path, "error", err)
		t.globalSuccess.Store(false)

		return
	}
	defer doc.Close()

	if doc.PageCount() != t.expectedPageCount {
		slog.WarnContext(ctx, "indexer: page count changed since walk, skipping",
			"path", t.path, "walked_pages", t.expectedPageCount, "reopened_pages", doc.PageCount())
		t.globalSuccess.Store(false)

		return
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "indexer: failed to begin document transaction", "path", t.path, "error", err)
		t.globalSuccess.Store(false)

		return
	}

	// Per-page failures are tolerated in-transaction via InsertPageTx's
	// savepoint scoping, so the document's transaction is always worth
	// committing — it persists whatever pages succeeded even when some
	// did not. Only a commit failure itself rolls the document back.
	allPagesOK := indexPages(ctx, tx, t, doc, opts)

	if err := tx.Commit(ctx); err != nil {
		slog.ErrorContext(ctx, "indexer: commit failed, rolling back", "path", t.path, "error", err)
		_ = tx.Rollback(ctx)
		t.globalSuccess.Store(false)

		return
	}

	if !allPagesOK {
		t.globalSuccess.Store(false)
	}
}

// indexPages extracts, cleans, and persists every page of doc within
// tx. A single page's extraction or insert failure is logged and
// counted but does not abort the transaction: extraction failures never
// touch the database, and insert failures are scoped to their own
// savepoint by InsertPageTx. It returns false if at least one page
// failed, purely for the caller's success-flag bookkeeping.
func indexPages(ctx context.Context, tx pgx.Tx, t *task, doc *pdfdoc.Document, opts Options) bool {
	ok := true

	for page := 1; page <= doc.PageCount(); page++ {
		text, err := doc.PageText(page)
		if err != nil {
			slog.WarnContext(ctx, "indexer: page extraction failed", "path", t.path, "page", page, "error", err)
			ok = false

			continue
		}

		if text == "" {
			continue
		}

		if len(text) > storage.MaxPageTextBytes {
			text = text[:storage.MaxPageTextBytes]
		}

		cleaned := textclean.Clean([]byte(text), opts.RemoveURLs)
		if cleaned == nil {
			continue
		}

		if err := storage.InsertPageTx(ctx, tx, t.fileID, page, string(cleaned)); err != nil {
			slog.WarnContext(ctx, "indexer: page insert failed", "path", t.path, "page", page, "error", err)
			ok = false

			continue
		}
	}

	return ok
}
