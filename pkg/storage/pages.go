package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abiiranathan/lexicon/internal/apperrors"
)

// MaxPageTextBytes is the truncation cap applied before a page's text is
// persisted, to stay within the storage engine's tokenizer limit.
const MaxPageTextBytes = 2046

// InsertPage writes one page row. A row-level conflict (duplicate
// file_id/page_num) is swallowed (ON CONFLICT DO NOTHING). Any other
// error leaves the enclosing transaction aborted on real Postgres;
// callers inserting inside a multi-page transaction should use
// InsertPageTx instead so one page's failure doesn't take down the
// transaction's other, already-successful statements.
func InsertPage(ctx context.Context, q Querier, fileID int64, pageNum int, text string) error {
	const insert = `
INSERT INTO pages(file_id, page_num, text) VALUES ($1, $2, $3)
ON CONFLICT (file_id, page_num) DO NOTHING`

	if _, err := q.Exec(ctx, insert, fileID, pageNum, text); err != nil {
		return apperrors.Wrap(apperrors.StorageFailure, fmt.Sprintf("insert page %d of file %d", pageNum, fileID), err)
	}

	return nil
}

// InsertPageTx is InsertPage scoped to its own SAVEPOINT within tx. A
// failure that ON CONFLICT doesn't absorb (e.g. a constraint violation
// pgx doesn't translate into a no-op) aborts only the savepoint, via
// ROLLBACK TO SAVEPOINT — the surrounding transaction stays usable so
// sibling pages can still be inserted and the document can still
// commit, per the per-page IndexingNonFatal tolerance.
func InsertPageTx(ctx context.Context, tx pgx.Tx, fileID int64, pageNum int, text string) error {
	spName := fmt.Sprintf("sp_page_%d", pageNum)

	if _, err := tx.Exec(ctx, "SAVEPOINT "+spName); err != nil {
		return apperrors.Wrap(apperrors.StorageFailure, "create savepoint", err)
	}

	if err := InsertPage(ctx, tx, fileID, pageNum, text); err != nil {
		if _, rbErr := tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+spName); rbErr != nil {
			return apperrors.Wrap(apperrors.StorageFailure, "rollback to savepoint", rbErr)
		}

		return err
	}

	if _, err := tx.Exec(ctx, "RELEASE SAVEPOINT "+spName); err != nil {
		return apperrors.Wrap(apperrors.StorageFailure, "release savepoint", err)
	}

	return nil
}

// Page is a persisted page record.
type Page struct {
	FileID  int64
	PageNum int
	Text    string
}

// GetPage returns the text of file_id's page_num page.
func GetPage(ctx context.Context, q Querier, fileID int64, pageNum int) (Page, error) {
	const query = `SELECT file_id, page_num, text FROM pages WHERE file_id = $1 AND page_num = $2`

	var p Page

	err := q.QueryRow(ctx, query, fileID, pageNum).Scan(&p.FileID, &p.PageNum, &p.Text)
	if errors.Is(err, pgx.ErrNoRows) {
		return Page{}, apperrors.Wrap(apperrors.NotFound, fmt.Sprintf("page %d of file %d", pageNum, fileID), err)
	}

	if err != nil {
		return Page{}, apperrors.Wrap(apperrors.StorageFailure, "get page", err)
	}

	return p, nil
}
