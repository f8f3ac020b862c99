package ai

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"<p>answer</p>"}]}}]}`)
	}))
	defer srv.Close()

	s := NewWithEndpoint("test-key", "test-model", srv.URL)

	html, cached, err := s.Summarize(t.Context(), "what is x?", "some context")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "<p>answer</p>", html)
}

func TestSummarize_CachesSecondCall(t *testing.T) {
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"cached answer"}]}}]}`)
	}))
	defer srv.Close()

	s := NewWithEndpoint("test-key", "test-model", srv.URL)

	_, cached1, err := s.Summarize(t.Context(), "same query", "ctx")
	require.NoError(t, err)
	assert.False(t, cached1)

	html2, cached2, err := s.Summarize(t.Context(), "same query", "ctx")
	require.NoError(t, err)
	assert.True(t, cached2)
	assert.Equal(t, "cached answer", html2)
	assert.Equal(t, 1, calls)
}

func TestSummarize_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewWithEndpoint("test-key", "test-model", srv.URL)

	_, _, err := s.Summarize(t.Context(), "q", "c")
	assert.Error(t, err)
}

func TestSummarize_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer srv.Close()

	s := NewWithEndpoint("test-key", "test-model", srv.URL)

	_, _, err := s.Summarize(t.Context(), "q", "c")
	assert.Error(t, err)
}

func TestSummarize_MissingCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	s := NewWithEndpoint("test-key", "test-model", srv.URL)

	_, _, err := s.Summarize(t.Context(), "q", "c")
	assert.Error(t, err)
}

func TestSummarize_TransportFailure(t *testing.T) {
	s := NewWithEndpoint("test-key", "test-model", "http://127.0.0.1:1")

	_, _, err := s.Summarize(t.Context(), "q", "c")
	assert.Error(t, err)
}
