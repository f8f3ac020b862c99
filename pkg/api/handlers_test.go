package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	a := &API{}

	w := httptest.NewRecorder()
	a.healthCheck(w, httptest.NewRequest(http.MethodGet, "/livez", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ok", w.Body.String())
}
