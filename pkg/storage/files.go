package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/abiiranathan/lexicon/internal/apperrors"
)

// File is a persisted file record.
type File struct {
	ID       int64
	Name     string
	Path     string
	NumPages int
}

// Querier is satisfied by *pgxpool.Conn, *pgxpool.Pool, and pgx.Tx,
// letting the same query helpers run against a dedicated handle, the
// shared pool, or an open transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UpsertFile inserts a file record or updates num_pages on conflict,
// returning its id. Mirrors the walker-side upsert step: insert with
// ON CONFLICT DO UPDATE RETURNING id, falling back to a plain SELECT if
// the RETURNING row is unexpectedly absent.
func UpsertFile(ctx context.Context, q Querier, name, path string, numPages int) (int64, error) {
	const upsert = `
INSERT INTO files(name, path, num_pages) VALUES ($1, $2, $3)
ON CONFLICT(name, path) DO UPDATE SET num_pages = EXCLUDED.num_pages
RETURNING id`

	var id int64

	err := q.QueryRow(ctx, upsert, name, path, numPages).Scan(&id)
	if err == nil {
		return id, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, apperrors.Wrap(apperrors.StorageFailure, "upsert file", err)
	}

	const fallback = `SELECT id FROM files WHERE path = $1 AND name = $2`

	if err := q.QueryRow(ctx, fallback, path, name).Scan(&id); err != nil {
		return 0, apperrors.Wrap(apperrors.StorageFailure, "lookup file after upsert", err)
	}

	return id, nil
}

// GetFile returns the file record with the given id.
func GetFile(ctx context.Context, q Querier, id int64) (File, error) {
	const query = `SELECT id, name, path, num_pages FROM files WHERE id = $1`

	var f File

	err := q.QueryRow(ctx, query, id).Scan(&f.ID, &f.Name, &f.Path, &f.NumPages)
	if errors.Is(err, pgx.ErrNoRows) {
		return File{}, apperrors.Wrap(apperrors.NotFound, fmt.Sprintf("file %d", id), err)
	}

	if err != nil {
		return File{}, apperrors.Wrap(apperrors.StorageFailure, "get file", err)
	}

	return f, nil
}

// ListFilesPage is a page of the file listing plus the total row count
// (for pagination metadata).
type ListFilesPage struct {
	Files      []File
	TotalCount int
}

// ListFiles returns a page of files optionally filtered by a
// case-insensitive substring of name, ordered by name ascending.
func ListFiles(ctx context.Context, q Querier, nameFilter string, limit, offset int) (ListFilesPage, error) {
	const countAll = `SELECT count(*) FROM files`
	const countFiltered = `SELECT count(*) FROM files WHERE name ILIKE $1`
	const listAll = `SELECT id, name, path, num_pages FROM files ORDER BY name ASC LIMIT $1 OFFSET $2`
	const listFiltered = `SELECT id, name, path, num_pages FROM files WHERE name ILIKE $1 ORDER BY name ASC LIMIT $2 OFFSET $3`

	var total int

	if nameFilter == "" {
		if err := q.QueryRow(ctx, countAll).Scan(&total); err != nil {
			return ListFilesPage{}, apperrors.Wrap(apperrors.StorageFailure, "count files", err)
		}
	} else if err := q.QueryRow(ctx, countFiltered, "%"+nameFilter+"%").Scan(&total); err != nil {
		return ListFilesPage{}, apperrors.Wrap(apperrors.StorageFailure, "count filtered files", err)
	}

	var rows pgx.Rows

	var err error

	if nameFilter == "" {
		rows, err = q.Query(ctx, listAll, limit, offset)
	} else {
		rows, err = q.Query(ctx, listFiltered, "%"+nameFilter+"%", limit, offset)
	}

	if err != nil {
		return ListFilesPage{}, apperrors.Wrap(apperrors.StorageFailure, "list files", err)
	}

	defer rows.Close()

	var files []File

	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.Name, &f.Path, &f.NumPages); err != nil {
			return ListFilesPage{}, apperrors.Wrap(apperrors.StorageFailure, "scan file row", err)
		}

		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return ListFilesPage{}, apperrors.Wrap(apperrors.StorageFailure, "iterate file rows", err)
	}

	return ListFilesPage{Files: files, TotalCount: total}, nil
}

// DeleteFile removes a file record, cascading to its pages.
func DeleteFile(ctx context.Context, q Querier, id int64) error {
	tag, err := q.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(apperrors.StorageFailure, "delete file", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.NotFound, fmt.Sprintf("file %d not found", id))
	}

	return nil
}

// CorpusStats summarizes the indexed corpus for the administrative
// stats surface.
type CorpusStats struct {
	FileCount int64
	PageCount int64
}

// Stats returns corpus-wide file and page counts.
func Stats(ctx context.Context, q Querier) (CorpusStats, error) {
	const query = `SELECT (SELECT count(*) FROM files), (SELECT count(*) FROM pages)`

	var s CorpusStats

	if err := q.QueryRow(ctx, query).Scan(&s.FileCount, &s.PageCount); err != nil {
		return CorpusStats{}, apperrors.Wrap(apperrors.StorageFailure, "corpus stats", err)
	}

	return s, nil
}
