// Package search implements ranked full-text retrieval over the pages
// table, result shaping for the HTTP layer, and bounded context
// assembly for the optional AI-synthesis step.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/abiiranathan/lexicon/internal/apperrors"
	"github.com/abiiranathan/lexicon/pkg/storage"
)

const (
	minRank          = 0.005
	hardResultLimit  = 100
	phraseRankBonus  = 10.0
	extendedSnipChar = 2000
	maxContextRows   = 15
	maxContextBytes  = 30 * 1024
)

// Result is one ranked page match, shaped for the HTTP response.
type Result struct {
	FileID   int64
	FileName string
	PageNum  int
	NumPages int
	Snippet  string

	extendedSnippet string
}

// Response is the full search result set.
type Response struct {
	Results []Result
	Count   int
	Query   string
}

// Run executes the ranked query plan against q, optionally restricted to
// fileFilter (0 means no restriction).
func Run(ctx context.Context, q storage.Querier, query string, fileFilter int64) (Response, error) {
	const sql = `
WITH parsed AS (
  SELECT
    websearch_to_tsquery('english', $1) AS broad,
    phraseto_tsquery('english', $1) AS phrase
),
ranked AS (
  SELECT
    p.file_id,
    p.page_num,
    p.text,
    f.name AS file_name,
    f.num_pages,
    ts_rank_cd(p.text_vector, parsed.broad) +
      CASE WHEN p.text_vector @@ parsed.phrase THEN $3 ELSE 0 END AS rank
  FROM pages p
  JOIN files f ON f.id = p.file_id
  CROSS JOIN parsed
  WHERE p.text_vector @@ parsed.broad
    AND ($2 = 0 OR p.file_id = $2)
),
deduped AS (
  SELECT DISTINCT ON (file_id, page_num) *
  FROM ranked
  WHERE rank >= $4
  ORDER BY file_id, page_num, rank DESC
)
SELECT
  file_id,
  file_name,
  page_num,
  num_pages,
  ts_headline('english', text, websearch_to_tsquery('english', $1),
    'MaxFragments=3, MinWords=10, MaxWords=200, StartSel=<b>, StopSel=</b>') AS snippet,
  left(text, $5) AS extended_snippet
FROM deduped
ORDER BY rank DESC, file_name ASC, page_num ASC
LIMIT $6`

	rows, err := q.Query(ctx, sql, query, fileFilter, phraseRankBonus, minRank, extendedSnipChar, hardResultLimit)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.StorageFailure, "search query", err)
	}

	defer rows.Close()

	var results []Result

	for rows.Next() {
		var r Result

		if err := rows.Scan(&r.FileID, &r.FileName, &r.PageNum, &r.NumPages, &r.Snippet, &r.extendedSnippet); err != nil {
			return Response{}, apperrors.Wrap(apperrors.StorageFailure, "scan search row", err)
		}

		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return Response{}, apperrors.Wrap(apperrors.StorageFailure, "iterate search rows", err)
	}

	return Response{Results: results, Count: len(results), Query: query}, nil
}

// AssembleContext concatenates up to maxContextRows results' extended
// snippets into a single prompt-context string, each prefixed with a
// header identifying its source, stopping once the accumulated size
// would exceed maxContextBytes.
func AssembleContext(results []Result) string {
	var b strings.Builder

	for i, r := range results {
		if i >= maxContextRows {
			break
		}

		header := fmt.Sprintf("=== EXCERPT %d: [%s, Page %d of %d] ===\n", i+1, r.FileName, r.PageNum, r.NumPages)
		chunk := header + r.extendedSnippet + "\n\n"

		if b.Len()+len(chunk) > maxContextBytes {
			break
		}

		b.WriteString(chunk)
	}

	return b.String()
}
