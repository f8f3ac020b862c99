package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abiiranathan/lexicon/pkg/cache"
	"github.com/abiiranathan/lexicon/pkg/storage"
)

const resultCacheTTL = 60 * time.Second

// Synthesizer answers a question given assembled context, returning
// HTML and whether the answer came from the synthesizer's own cache.
type Synthesizer interface {
	Summarize(ctx context.Context, query, context string) (html string, cached bool, err error)
}

// Engine bundles the storage handle, the response cache, and an
// optional AI synthesizer, implementing the full C6 contract.
type Engine struct {
	q       storage.Querier
	cache   *cache.Cache
	ai      Synthesizer
	enabled bool
}

// NewEngine constructs a search Engine. ai may be nil (no GEMINI_API_KEY
// configured), in which case every search response has AISummary == nil.
func NewEngine(q storage.Querier, respCache *cache.Cache, ai Synthesizer) *Engine {
	return &Engine{q: q, cache: respCache, ai: ai, enabled: ai != nil}
}

// CachedResponse is the full JSON-shaped search response, including the
// optional AI summary.
type CachedResponse struct {
	Results   []ResultView `json:"results"`
	Count     int          `json:"count"`
	Query     string       `json:"query"`
	AISummary *string      `json:"ai_summary"`
}

// ResultView is the client-facing shape of a Result (extended snippet
// omitted; it never leaves the server).
type ResultView struct {
	FileID   int64  `json:"file_id"`
	FileName string `json:"file_name"`
	PageNum  int    `json:"page_num"`
	NumPages int    `json:"num_pages"`
	Snippet  string `json:"snippet"`
}

// Search runs the full C6 pipeline: cache lookup, query, optional AI
// synthesis, cache store.
func (e *Engine) Search(ctx context.Context, query string, fileFilter int64, aiRequested bool) (CachedResponse, error) {
	key := cacheKey(query, fileFilter)

	if cached, ok := e.cache.Get(key); ok {
		var resp CachedResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return resp, nil
		}
	}

	raw, err := Run(ctx, e.q, query, fileFilter)
	if err != nil {
		return CachedResponse{}, err
	}

	resp := CachedResponse{
		Count: raw.Count,
		Query: raw.Query,
	}

	for _, r := range raw.Results {
		resp.Results = append(resp.Results, ResultView{
			FileID:   r.FileID,
			FileName: r.FileName,
			PageNum:  r.PageNum,
			NumPages: r.NumPages,
			Snippet:  r.Snippet,
		})
	}

	if e.shouldSynthesize(raw, fileFilter, aiRequested) {
		context := AssembleContext(raw.Results)

		html, _, err := e.ai.Summarize(ctx, query, context)
		if err == nil {
			resp.AISummary = &html
		}
	}

	if encoded, err := json.Marshal(resp); err == nil {
		_ = e.cache.Set(key, encoded, resultCacheTTL)
	}

	return resp, nil
}

func (e *Engine) shouldSynthesize(raw Response, fileFilter int64, aiRequested bool) bool {
	if !e.enabled || !aiRequested {
		return false
	}

	if fileFilter != 0 {
		return false
	}

	return len(raw.Results) > 0
}

func cacheKey(query string, fileFilter int64) string {
	filter := "all"
	if fileFilter != 0 {
		filter = fmt.Sprintf("%d", fileFilter)
	}

	return fmt.Sprintf("search:%s:%s", query, filter)
}
