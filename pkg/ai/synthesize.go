// Package ai implements the optional LLM answer-synthesis step: a
// dedicated cache in front of a plain HTTP POST to a Gemini-compatible
// generate-content endpoint.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abiiranathan/lexicon/pkg/cache"
)

const (
	cacheCapacity  = 500
	cacheTTL       = 24 * time.Hour
	requestTimeout = 25 * time.Second

	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
)

// Synthesizer answers a question given assembled PDF excerpt context by
// calling a configured generative-model endpoint, treating the HTTP call
// itself as an out-of-scope request/response function per the prompt
// and JSON-shape contract below.
type Synthesizer struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	cache      *cache.Cache
}

// New constructs a Synthesizer. model defaults to "gemini-2.0-flash" if
// empty.
func New(apiKey, model string) *Synthesizer {
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &Synthesizer{
		apiKey:     apiKey,
		model:      model,
		endpoint:   fmt.Sprintf(defaultEndpoint, model),
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      cache.New(cacheCapacity, cacheTTL),
	}
}

// NewWithEndpoint is New with the generate-content endpoint overridden,
// for tests that point the Synthesizer at an httptest server.
func NewWithEndpoint(apiKey, model, endpoint string) *Synthesizer {
	s := New(apiKey, model)
	s.endpoint = endpoint

	return s
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Summarize answers query using pdfContext as supplementary excerpts.
// Transport failures, non-200 responses, and malformed or incomplete
// JSON all surface as (html="", wasCachedHit=false, err!=nil), and
// callers are expected to treat any error as "render ai_summary = null".
func (s *Synthesizer) Summarize(ctx context.Context, query, pdfContext string) (html string, wasCachedHit bool, err error) {
	key := "ai:" + query

	if cached, ok := s.cache.Get(key); ok {
		return string(cached), true, nil
	}

	prompt := buildPrompt(query, pdfContext)

	reqBody, err := json.Marshal(generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", false, fmt.Errorf("ai: marshal request: %w", err)
	}

	url := s.endpoint + "?key=" + s.apiKey

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", false, fmt.Errorf("ai: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("ai: upstream status %d", resp.StatusCode)
	}

	var parsed generateContentResponse

	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("ai: decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", false, fmt.Errorf("ai: response missing candidates[0].content.parts[0].text")
	}

	html = parsed.Candidates[0].Content.Parts[0].Text

	_ = s.cache.Set(key, []byte(html), 0)

	return html, false, nil
}

func buildPrompt(query, pdfContext string) string {
	return fmt.Sprintf(`Answer the following question directly, drawing first on your own
knowledge. The PDF excerpts below are supplementary context you may use
to ground or refine your answer, but you are not limited to them.
Respond with HTML only, no markdown, no surrounding commentary.

Question: %s

Supplementary excerpts:
%s`, query, pdfContext)
}
