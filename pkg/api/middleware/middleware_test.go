package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUse_AppliesOutermostFirst(t *testing.T) {
	var order []string

	track := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+":before")
				next.ServeHTTP(w, r)
				order = append(order, name+":after")
			})
		}
	}

	handler := func(w http.ResponseWriter, _ *http.Request) { order = append(order, "handler") }

	wrapped := Use(handler, track("a"), track("b"))

	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, []string{"a:before", "b:before", "handler", "b:after", "a:after"}, order)
}

func TestUse_NoMiddlewareCallsHandlerDirectly(t *testing.T) {
	called := false
	handler := func(w http.ResponseWriter, _ *http.Request) { called = true }

	Use(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.True(t, called)
}

func TestNewReqID_SetsRequestIDInContextAndPassesStatusThrough(t *testing.T) {
	var seenID string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	wrapped := NewReqID()(handler)

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", http.NoBody))

	assert.NotEmpty(t, seenID)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRequestIDFromContext_EmptyWhenAbsent(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(httptest.NewRequest(http.MethodGet, "/", http.NoBody).Context()))
}

func TestNewCORS_SetsHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	wrapped := NewCORS()(handler)

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewCORS_ShortCircuitsOptions(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { called = true })
	wrapped := NewCORS()(handler)

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", http.NoBody))

	require.False(t, called)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
